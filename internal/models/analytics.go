package models

// BlockRisk - суммарный риск по блоку для карты района
type BlockRisk struct {
	Block      string   `json:"block"`
	CRI        float64  `json:"cri"`
	Color      string   `json:"color"`
	Latitude   *float64 `json:"lat,omitempty"`
	Longitude  *float64 `json:"lng,omitempty"`
	IssueCount int      `json:"issue_count"`
}

// Summary - верхняя строка аналитики
type Summary struct {
	CRIScore      int    `json:"cri_score"`
	HighRiskCount int    `json:"high_risk_count"`
	AvgResolution string `json:"avg_res_time"`
	RepeatRate    string `json:"repeat_rate"`
}

// PillarRisk - риск по одному из четырех направлений
type PillarRisk struct {
	Name    string  `json:"name"`
	Risk    float64 `json:"risk"`
	Percent int     `json:"percent"`
}

// Trend - динамика CRI за последние дни
type Trend struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// Hotspot - блок с наибольшим открытым риском
type Hotspot struct {
	Area         string  `json:"area"`
	CRI          float64 `json:"cri"`
	DominantRisk string  `json:"dominant_risk"`
	Duration     string  `json:"duration"`
}

// Analytics - полный пакет аналитики
type Analytics struct {
	Summary      Summary        `json:"summary"`
	Pillars      []PillarRisk   `json:"pillars"`
	Trend        Trend          `json:"trend"`
	Hotspots     []Hotspot      `json:"hotspots"`
	Distribution map[string]int `json:"distribution"`
}
