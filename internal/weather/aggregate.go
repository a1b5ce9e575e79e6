package weather

import "time"

// DefaultForecastDays is the horizon the aggregator truncates to unless
// the caller asks for something else.
const DefaultForecastDays = 5

// dayGroup accumulates the interval samples of one calendar day.
type dayGroup struct {
	temps     []float64
	feelsLike []float64
	humidity  []float64
	windSpeed []float64

	// weather and dt come from the first sample seen for the day;
	// they are fixed when the group is created and never updated.
	weather []Condition
	dt      int64
}

// AggregateDaily groups chronological interval samples by local calendar
// day and reduces each group to a DailyForecast. Groups appear in
// first-occurrence order and the result is truncated to the first days
// entries; fewer distinct days return fewer entries, never padding.
//
// Grouping uses the viewer's local day boundary, not UTC, to match how
// the daily list is displayed. Near-midnight samples close to a timezone
// edge can land on a different day than they would under UTC grouping.
func AggregateDaily(items []ForecastItem, days int) ([]DailyForecast, error) {
	if len(items) == 0 {
		return nil, NewAPIError(CodeEmptyInput, "no forecast samples to aggregate")
	}
	if days <= 0 {
		days = DefaultForecastDays
	}

	groups := make(map[string]*dayGroup)
	var order []string

	for _, item := range items {
		date := time.Unix(item.Dt, 0).Format("2006-01-02")

		g, ok := groups[date]
		if !ok {
			g = &dayGroup{
				weather: item.Weather,
				dt:      item.Dt,
			}
			groups[date] = g
			order = append(order, date)
		}

		g.temps = append(g.temps, item.Main.Temp)
		g.feelsLike = append(g.feelsLike, item.Main.FeelsLike)
		g.humidity = append(g.humidity, item.Main.Humidity)
		g.windSpeed = append(g.windSpeed, item.Wind.Speed)
	}

	if len(order) > days {
		order = order[:days]
	}

	daily := make([]DailyForecast, 0, len(order))
	for _, date := range order {
		g := groups[date]
		n := len(g.temps)

		daily = append(daily, DailyForecast{
			Dt: g.dt,
			Temp: DailyTemperature{
				Day:   mean(g.temps),
				Min:   minOf(g.temps),
				Max:   maxOf(g.temps),
				Night: g.temps[n-1],
				Eve:   g.temps[n*3/4],
				Morn:  g.temps[0],
			},
			FeelsLike: mean(g.feelsLike),
			Humidity:  mean(g.humidity),
			WindSpeed: mean(g.windSpeed),
			Weather:   g.weather,
		})
	}

	return daily, nil
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
