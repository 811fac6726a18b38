package model

import "strconv"

// Program is a loyalty program offers can be priced in.
type Program struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// Currency is a currency taxes can be charged in.
type Currency struct {
	Code string `json:"code"`
	ID   int64  `json:"id"`
}

// BackendConfig is the reference data served by the backend.
type BackendConfig struct {
	Templates  []string   `json:"templates"`
	Programs   []Program  `json:"programs"`
	Currencies []Currency `json:"currencies"`
}

// ProgramName resolves a program reference, returning ok=false when unknown.
func (c BackendConfig) ProgramName(ref FlexString) (string, bool) {
	for _, p := range c.Programs {
		if strconv.FormatInt(p.ID, 10) == ref.String() {
			return p.Name, true
		}
	}
	return "", false
}

// CurrencyCode resolves a currency reference, returning ok=false when unknown.
func (c BackendConfig) CurrencyCode(ref FlexString) (string, bool) {
	for _, cur := range c.Currencies {
		if strconv.FormatInt(cur.ID, 10) == ref.String() {
			return cur.Code, true
		}
	}
	return "", false
}
