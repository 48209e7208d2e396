package testutil

import "github.com/roach88/apriori/internal/dataset"

// WeatherTable returns the four-row weather/activity table:
//
//	Sunny Hike
//	Sunny Hike
//	Sunny Read
//	Rainy Read
func WeatherTable() *dataset.Table {
	return &dataset.Table{
		Relation: "weather",
		Attributes: []dataset.Attribute{
			{Name: "Weather", Values: []string{"Sunny", "Rainy"}},
			{Name: "Activity", Values: []string{"Hike", "Read"}},
		},
		Rows: [][]string{
			{"Sunny", "Hike"},
			{"Sunny", "Hike"},
			{"Sunny", "Read"},
			{"Rainy", "Read"},
		},
	}
}

// GolfTable returns the classic 14-row nominal "play golf" relation.
func GolfTable() *dataset.Table {
	return &dataset.Table{
		Relation: "golf",
		Attributes: []dataset.Attribute{
			{Name: "outlook", Values: []string{"sunny", "overcast", "rainy"}},
			{Name: "temperature", Values: []string{"hot", "mild", "cool"}},
			{Name: "humidity", Values: []string{"high", "normal"}},
			{Name: "windy", Values: []string{"TRUE", "FALSE"}},
			{Name: "play", Values: []string{"yes", "no"}},
		},
		Rows: [][]string{
			{"sunny", "hot", "high", "FALSE", "no"},
			{"sunny", "hot", "high", "TRUE", "no"},
			{"overcast", "hot", "high", "FALSE", "yes"},
			{"rainy", "mild", "high", "FALSE", "yes"},
			{"rainy", "cool", "normal", "FALSE", "yes"},
			{"rainy", "cool", "normal", "TRUE", "no"},
			{"overcast", "cool", "normal", "TRUE", "yes"},
			{"sunny", "mild", "high", "FALSE", "no"},
			{"sunny", "cool", "normal", "FALSE", "yes"},
			{"rainy", "mild", "normal", "FALSE", "yes"},
			{"sunny", "mild", "normal", "TRUE", "yes"},
			{"overcast", "mild", "high", "TRUE", "yes"},
			{"overcast", "hot", "normal", "FALSE", "yes"},
			{"rainy", "mild", "high", "TRUE", "no"},
		},
	}
}
