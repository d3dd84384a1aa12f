package domain

// DailyProfitStats is the aggregated profit of one bot for one UTC day.
// Profits is the raw sum in yoctoNEAR, ProfitsNear the same value scaled
// to NEAR for display.
type DailyProfitStats struct {
	Date        string `json:"date"` // YYYY-MM-DD
	From        int64  `json:"from"` // ms epoch, inclusive start of day
	To          int64  `json:"to"`   // ms epoch, inclusive end of day
	Profits     string `json:"profits"`
	ProfitsNear string `json:"profitsNear"`
}

// DailyGasStats is the aggregated gas burn of one bot for one UTC day,
// summed across success and failure trades.
type DailyGasStats struct {
	Date      string `json:"date"`
	From      int64  `json:"from"`
	To        int64  `json:"to"`
	GasBurnt  string `json:"gasBurnt"`
	NearBurnt string `json:"nearBurnt"`
}
