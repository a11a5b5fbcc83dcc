package growth

type Infant struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Age       int     `json:"age"` // whole years at registration
	Sex       string  `json:"sex"` // H|M|F
	Weight    float64 `json:"weight"`
	Height    float64 `json:"height"`
	CreatedAt int64   `json:"created_at,omitempty"`
}

// Measurement is one classified weigh-in. Label is the percentile band the
// classifier assigned; it is never taken from the client.
type Measurement struct {
	ID         string  `json:"id"`
	InfantID   int64   `json:"infant_id"`
	RecordedAt int64   `json:"recorded_at"`
	Age        int     `json:"age"`
	Weight     float64 `json:"weight"`
	Height     float64 `json:"height"`
	Label      string  `json:"label"`
	Chart      string  `json:"chart"` // e.g. male_0_2
}

type MeasurementInput struct {
	Age    *int    `json:"age,omitempty"` // defaults to the infant's registered age
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
}
