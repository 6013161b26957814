package models

type ScanStatus string

const (
	ScanPending    ScanStatus = "pending"
	ScanProcessing ScanStatus = "processing"
	ScanCompleted  ScanStatus = "completed"
	ScanFailed     ScanStatus = "failed"
)

// Terminal reports whether a scan status allows no further transitions.
func (s ScanStatus) Terminal() bool {
	return s == ScanCompleted || s == ScanFailed
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// rank gives the total ordering low < medium < high < critical.
func (r RiskLevel) rank() int {
	switch r {
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return 0
	}
}

func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return r.rank() >= other.rank()
}

type RecommendationPriority string

const (
	PriorityImmediate RecommendationPriority = "immediate"
	PriorityHigh      RecommendationPriority = "high"
	PriorityMedium    RecommendationPriority = "medium"
	PriorityLow       RecommendationPriority = "low"
)

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type PoultryType string

const (
	PoultryBroilers   PoultryType = "Broilers"
	PoultryLayers     PoultryType = "Layers"
	PoultryIndigenous PoultryType = "Indigenous"
)

func (p PoultryType) Valid() bool {
	switch p {
	case PoultryBroilers, PoultryLayers, PoultryIndigenous:
		return true
	}
	return false
}
