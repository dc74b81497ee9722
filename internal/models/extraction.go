package models

// ExtractionResult is the normalized content of a vendor export document.
// Nil pointers mark values the document did not carry.
type ExtractionResult struct {
	RuntimeVersion *string  `json:"runtimeVersion"`
	ServerFullPath *string  `json:"serverFullPath"`
	PathAnalog     *string  `json:"pathAnalog"`
	PathBinary     *string  `json:"pathBinary"`
	TrendsAnalog   []string `json:"trendsAnalog"`
	TrendsBinary   []string `json:"trendsBinary"`
	IsModbus       bool     `json:"isModbus"`
}

// NewExtractionResult returns an empty result with non-nil name lists.
func NewExtractionResult() *ExtractionResult {
	return &ExtractionResult{
		TrendsAnalog: make([]string, 0),
		TrendsBinary: make([]string, 0),
	}
}
