package weather

// DefaultIconBaseURL hosts the provider's condition icons.
const DefaultIconBaseURL = "https://openweathermap.org/img/wn"

// IconURL resolves a condition icon code to its image URL. The large
// variant appends the provider's @2x suffix. Pure string formatting, no
// network validation.
func IconURL(iconCode string, large bool) string {
	return IconURLFrom(DefaultIconBaseURL, iconCode, large)
}

// IconURLFrom is IconURL against a custom icon base.
func IconURLFrom(base, iconCode string, large bool) string {
	size := ""
	if large {
		size = "@2x"
	}
	return base + "/" + iconCode + size + ".png"
}
