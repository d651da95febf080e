package models

// Recommendation types, one per strategy.
const (
	RecTypeLearningPath = "learning_path"
	RecTypeStrengthen   = "strengthen"
	RecTypePrerequisite = "prerequisite"
	RecTypeAdvanced     = "advanced"
)

// Recommendation is an ephemeral ranked suggestion; never persisted.
type Recommendation struct {
	TopicID   int64   `json:"topic_id"`
	TopicName string  `json:"topic_name"`
	SubjectID int64   `json:"subject_id"`
	Reason    string  `json:"reason"`
	Priority  float64 `json:"priority"`
	Type      string  `json:"type"`
}

// RecommendationSet is the merged output of all strategies.
type RecommendationSet struct {
	Recommendations []Recommendation `json:"recommendations"`
	Total           int              `json:"total"`
	Strategies      map[string]int   `json:"strategies"`
}

// PathTopic is a topic annotated with the student's mastery of it.
type PathTopic struct {
	TopicID    int64   `json:"topic_id"`
	TopicName  string  `json:"topic_name"`
	Mastery    float64 `json:"mastery"`
	OrderIndex int     `json:"order_index"`
	GradeLevel int     `json:"grade_level"`
}

// LearningPath is the adaptive path view for one student and subject.
type LearningPath struct {
	Current         *PathTopic       `json:"current"`
	Next            []Recommendation `json:"next"`
	Remediation     []Recommendation `json:"remediation"`
	Enrichment      []Recommendation `json:"enrichment"`
	Prerequisites   []Recommendation `json:"prerequisites"`
	Completed       []PathTopic      `json:"completed"`
	InProgress      []PathTopic      `json:"in_progress"`
	NotStarted      []PathTopic      `json:"not_started"`
	Recommendations []Recommendation `json:"recommendations"`
}

// RecentPerformance summarizes a student's last few attempts on a
// topic, used for real-time path adjustment.
type RecentPerformance struct {
	Accuracy float64 `json:"accuracy"` // 0-100
	Attempts int     `json:"attempts"`
}

// Performance classifications produced by path adjustment.
const (
	PerformanceStruggling = "struggling"
	PerformanceStrong     = "strong"
	PerformanceAverage    = "average"
)

// PathAdjustment is the outcome of a real-time path adjustment.
type PathAdjustment struct {
	Classification    string           `json:"classification"`
	Recommendations   []Recommendation `json:"recommendations"`
	IncludeEnrichment bool             `json:"include_enrichment"`
}
