package openweather

import "time"

// CurrentResponse mirrors the subset of /data/2.5/weather the engine needs.
type CurrentResponse struct {
	Weather  []Condition `json:"weather"`
	Sys      Sys         `json:"sys"`
	Timezone int64       `json:"timezone"`
	Name     string      `json:"name"`
	Cod      int         `json:"cod"`
}

// Condition is one entry of the weather array.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Sys carries the sunrise and sunset unix timestamps.
type Sys struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// Observation is what a fetch hands to the poll controller.
type Observation struct {
	ConditionCode int
	Description   string
	Sunrise       time.Time
	Sunset        time.Time
	City          string
}

func (r CurrentResponse) observation() (Observation, error) {
	if len(r.Weather) == 0 {
		return Observation{}, &FetchError{Kind: KindNoConditions, Err: errNoConditions}
	}
	return Observation{
		ConditionCode: r.Weather[0].ID,
		Description:   r.Weather[0].Description,
		Sunrise:       time.Unix(r.Sys.Sunrise, 0),
		Sunset:        time.Unix(r.Sys.Sunset, 0),
		City:          r.Name,
	}, nil
}
