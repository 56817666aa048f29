package matrix

import "time"

// Orientation axis labels, in declaration order. The order decides ties.
const (
	AxisPersonalReluctant  = "P-R"
	AxisPersonalOpen       = "P-NR"
	AxisCommunityReluctant = "PO-R"
	AxisCommunityOpen      = "PO-NR"
	AxisClimateReluctant   = "PC-R"
	AxisClimateOpen        = "PC-NR"
)

// Axes lists every orientation axis in declaration order.
var Axes = []string{
	AxisPersonalReluctant, AxisPersonalOpen,
	AxisCommunityReluctant, AxisCommunityOpen,
	AxisClimateReluctant, AxisClimateOpen,
}

// Narrative categories.
const (
	StoryLiving = "living"
	StoryAnte   = "ante"
	StoryGrand  = "grand"

	StageEmerging   = "emerging"
	StageDeveloping = "developing"
	StageConverging = "converging"

	ResonanceIndividual = "individual"
	ResonanceLocal      = "local"
	ResonanceUniversal  = "universal"
)

// Engagement categories.
const (
	InvestmentLow    = "low"
	InvestmentMedium = "medium"
	InvestmentHigh   = "high"

	ReadinessExploring = "exploring"
	ReadinessPlanning  = "planning"
	ReadinessActing    = "acting"

	SupportInformation = "information"
	SupportValidation  = "validation"
	SupportResources   = "resources"
)

// OrientationMatrix scores personal, community and climate focus crossed
// with a reluctant or open stance. Scores are in [0,1] and not normalized.
type OrientationMatrix struct {
	PersonalReluctant  float64 `json:"P-R"`
	PersonalOpen       float64 `json:"P-NR"`
	CommunityReluctant float64 `json:"PO-R"`
	CommunityOpen      float64 `json:"PO-NR"`
	ClimateReluctant   float64 `json:"PC-R"`
	ClimateOpen        float64 `json:"PC-NR"`
}

// Score returns the value for an axis label, or 0 for an unknown label.
func (o OrientationMatrix) Score(axis string) float64 {
	switch axis {
	case AxisPersonalReluctant:
		return o.PersonalReluctant
	case AxisPersonalOpen:
		return o.PersonalOpen
	case AxisCommunityReluctant:
		return o.CommunityReluctant
	case AxisCommunityOpen:
		return o.CommunityOpen
	case AxisClimateReluctant:
		return o.ClimateReluctant
	case AxisClimateOpen:
		return o.ClimateOpen
	}
	return 0
}

// DialecticalMatrix measures thesis, antithesis and synthesis in a turn.
type DialecticalMatrix struct {
	ThesisStrength     float64 `json:"thesisStrength"`
	AntithesisPresence float64 `json:"antithesisPresence"`
	SynthesisReadiness float64 `json:"synthesisReadiness"`
}

// NarrativeMatrix classifies the kind of story a turn tells.
type NarrativeMatrix struct {
	StoryType          string `json:"storyType"`
	EvolutionStage     string `json:"evolutionStage"`
	CommunityResonance string `json:"communityResonance"`
}

// EngagementMatrix classifies how invested and ready the farmer is.
type EngagementMatrix struct {
	EmotionalInvestment string `json:"emotionalInvestment"`
	PracticalReadiness  string `json:"practicalReadiness"`
	SupportNeeds        string `json:"supportNeeds"`
}

// Analysis bundles the four matrices computed for one turn.
type Analysis struct {
	Orientation OrientationMatrix `json:"orientationMatrix"`
	Dialectical DialecticalMatrix `json:"dialecticalMatrix"`
	Narrative   NarrativeMatrix   `json:"narrativeMatrix"`
	Engagement  EngagementMatrix  `json:"engagementMatrix"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Comparison describes how two analyses in the history differ.
type Comparison struct {
	OrientationDistance    float64 `json:"orientationDistance"`
	DialecticalProgression float64 `json:"dialecticalProgression"`
	NarrativeShift         bool    `json:"narrativeShift"`
	EngagementChange       float64 `json:"engagementChange"`
}

// Series is the history projected into parallel time series for charts.
type Series struct {
	Timestamps  []time.Time         `json:"timestamps"`
	Orientation []OrientationMatrix `json:"orientation"`
	Dialectical []DialecticalMatrix `json:"dialectical"`
	Narrative   []NarrativeMatrix   `json:"narrative"`
	Engagement  []EngagementMatrix  `json:"engagement"`
	Sentiment   []float64           `json:"sentiment"`
}

// Evolution summarises how the dominant orientation moved over the history.
type Evolution struct {
	Trail   []string `json:"trail"`
	Changes int      `json:"changes"`
}
