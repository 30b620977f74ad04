package google

type recognitionConfig struct {
	Encoding                   string   `json:"encoding,omitempty"`
	SampleRateHertz            int      `json:"sampleRateHertz,omitempty"`
	LanguageCode               string   `json:"languageCode"`
	AlternativeLanguageCodes   []string `json:"alternativeLanguageCodes,omitempty"`
	EnableAutomaticPunctuation bool     `json:"enableAutomaticPunctuation,omitempty"`
	EnableWordTimeOffsets      bool     `json:"enableWordTimeOffsets,omitempty"`
	MaxAlternatives            int      `json:"maxAlternatives,omitempty"`
	Model                      string   `json:"model,omitempty"`
}

type recognitionAudio struct {
	Content string `json:"content"`
}

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type wordInfo struct {
	Word      string `json:"word"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type alternative struct {
	Transcript string     `json:"transcript"`
	Confidence *float64   `json:"confidence"`
	Words      []wordInfo `json:"words"`
}

type speechResult struct {
	Alternatives  []alternative `json:"alternatives"`
	ResultEndTime string        `json:"resultEndTime"`
	LanguageCode  string        `json:"languageCode"`
}

type recognizeResponse struct {
	Results []speechResult `json:"results"`
}

type operationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type operation struct {
	Name     string             `json:"name"`
	Done     bool               `json:"done"`
	Response *recognizeResponse `json:"response"`
	Error    *operationError    `json:"error"`
}
