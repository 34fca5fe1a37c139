package forecast

// Response is the raw provider payload for one forecast request.
// Blocks are kept loosely typed: which fields arrive depends entirely on
// the synthesized field lists, and a missing field means "not requested",
// never an error.
type Response struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Elevation float64 `json:"elevation"`

	Current      map[string]any    `json:"current"`
	CurrentUnits map[string]string `json:"current_units"`
	Hourly       map[string]any    `json:"hourly"`
	Daily        map[string]any    `json:"daily"`

	// Err/Reason are set when the provider reports a failure in the body.
	Err    any    `json:"error"`
	Reason string `json:"reason"`
}

// ProviderFailure reports whether the body itself carries a provider error
// and returns its reason.
func (r *Response) ProviderFailure() (string, bool) {
	if r.Err == nil || r.Err == false {
		return "", false
	}
	return r.Reason, true
}

// blockFloat reads a numeric field from a flat block such as `current`.
func blockFloat(block map[string]any, key string) *float64 {
	val, ok := block[key]
	if !ok {
		return nil
	}
	f, ok := toFloat(val)
	if !ok {
		return nil
	}
	return &f
}

// blockHas reports field presence regardless of type.
func blockHas(block map[string]any, key string) bool {
	_, ok := block[key]
	return ok
}

// seriesStrings reads a string array field from an index-aligned block
// such as `daily.time`.
func seriesStrings(block map[string]any, key string) []string {
	raw, ok := block[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}

// seriesFloat reads element i of a numeric array field. Arrays are not
// guaranteed to match the length of `time`, so out-of-range reads return
// nil instead of panicking.
func seriesFloat(block map[string]any, key string, i int) *float64 {
	raw, ok := block[key].([]any)
	if !ok || i < 0 || i >= len(raw) {
		return nil
	}
	f, ok := toFloat(raw[i])
	if !ok {
		return nil
	}
	return &f
}
