// Package model contains domain models passed between layers.
package model

import "time"

// EventKind tags a single recorded candidate or system action.
// The set is closed: ingestion rejects kinds outside this vocabulary.
type EventKind string

// Session lifecycle.
const (
	KindSessionStart       EventKind = "SESSION_START"
	KindSessionResumed     EventKind = "SESSION_RESUMED"
	KindSessionCompleted   EventKind = "SESSION_COMPLETED"
	KindSessionTerminated  EventKind = "SESSION_TERMINATED"
	KindPhaseSubmitted     EventKind = "PHASE_SUBMITTED"
	KindInterviewStarted   EventKind = "INTERVIEW_STARTED"
	KindInterviewCompleted EventKind = "INTERVIEW_COMPLETED"
)

// Code editing.
const (
	KindCodeEdit        EventKind = "CODE_EDIT"
	KindCodePasted      EventKind = "CODE_PASTED"
	KindCodeDeleted     EventKind = "CODE_DELETED"
	KindCellAdded       EventKind = "CELL_ADDED"
	KindCellRemoved     EventKind = "CELL_REMOVED"
	KindCellReordered   EventKind = "CELL_REORDERED"
	KindNotebookCleared EventKind = "NOTEBOOK_CLEARED"
	KindCommentAdded    EventKind = "COMMENT_ADDED"
	KindQueryModified   EventKind = "QUERY_MODIFIED"
	KindQueryRewritten  EventKind = "QUERY_REWRITTEN"
	KindSnippetSaved    EventKind = "SNIPPET_SAVED"
)

// Code execution.
const (
	KindCodeRun         EventKind = "CODE_RUN"
	KindSQLRun          EventKind = "SQL_RUN"
	KindRunResult       EventKind = "RUN_RESULT"
	KindRunCancelled    EventKind = "RUN_CANCELLED"
	KindRunTimeout      EventKind = "RUN_TIMEOUT"
	KindKernelRestarted EventKind = "KERNEL_RESTARTED"
	KindResultEvaluated EventKind = "RESULT_EVALUATED"
	KindResultExported  EventKind = "RESULT_EXPORTED"
)

// Errors and recovery.
const (
	KindErrorOccurred   EventKind = "ERROR_OCCURRED"
	KindErrorResolved   EventKind = "ERROR_RESOLVED"
	KindErrorRepeated   EventKind = "ERROR_REPEATED"
	KindErrorIgnored    EventKind = "ERROR_IGNORED"
	KindSyntaxError     EventKind = "SYNTAX_ERROR"
	KindRuntimeError    EventKind = "RUNTIME_ERROR"
	KindDeadEndReached  EventKind = "DEAD_END_REACHED"
	KindBreakthrough    EventKind = "BREAKTHROUGH"
	KindApproachChanged EventKind = "APPROACH_CHANGED"
	KindBacktracked     EventKind = "BACKTRACKED"
)

// Data exploration.
const (
	KindSchemaExplored      EventKind = "SCHEMA_EXPLORED"
	KindTablePreviewed      EventKind = "TABLE_PREVIEWED"
	KindDataQualityChecked  EventKind = "DATA_QUALITY_CHECKED"
	KindDataView            EventKind = "DATA_VIEW"
	KindColumnInspected     EventKind = "COLUMN_INSPECTED"
	KindRowCountChecked     EventKind = "ROW_COUNT_CHECKED"
	KindDistributionPlotted EventKind = "DISTRIBUTION_PLOTTED"
	KindSampleDrawn         EventKind = "SAMPLE_DRAWN"
	KindJoinKeyChecked      EventKind = "JOIN_KEY_CHECKED"
	KindDocConsulted        EventKind = "DOC_CONSULTED"
)

// AI assistant usage.
const (
	KindAIPrompt              EventKind = "AI_PROMPT"
	KindAIResponse            EventKind = "AI_RESPONSE"
	KindAIResponseUsed        EventKind = "AI_RESPONSE_USED"
	KindAIResponseRejected    EventKind = "AI_RESPONSE_REJECTED"
	KindAICodeCopied          EventKind = "AI_CODE_COPIED"
	KindAICodeModified        EventKind = "AI_CODE_MODIFIED"
	KindAISuggestionShown     EventKind = "AI_SUGGESTION_SHOWN"
	KindAISuggestionDismissed EventKind = "AI_SUGGESTION_DISMISSED"
	KindAIChatOpened          EventKind = "AI_CHAT_OPENED"
	KindAIChatClosed          EventKind = "AI_CHAT_CLOSED"
)

// Interview Q&A.
const (
	KindInterviewQuestion      EventKind = "INTERVIEW_QUESTION"
	KindInterviewAnswer        EventKind = "INTERVIEW_ANSWER"
	KindClarificationRequested EventKind = "CLARIFICATION_REQUESTED"
	KindRequirementNoted       EventKind = "REQUIREMENT_NOTED"
	KindAssumptionStated       EventKind = "ASSUMPTION_STATED"
	KindSummaryGiven           EventKind = "SUMMARY_GIVEN"
)

// Validation and insight.
const (
	KindValidationAttempt   EventKind = "VALIDATION_ATTEMPT"
	KindResultValidated     EventKind = "RESULT_VALIDATED"
	KindResultCompared      EventKind = "RESULT_COMPARED"
	KindOutlierDetected     EventKind = "OUTLIER_DETECTED"
	KindNullHandled         EventKind = "NULL_HANDLED"
	KindEdgeCaseTested      EventKind = "EDGE_CASE_TESTED"
	KindSanityChecked       EventKind = "SANITY_CHECKED"
	KindInsightNoted        EventKind = "INSIGHT_NOTED"
	KindHypothesisFormed    EventKind = "HYPOTHESIS_FORMED"
	KindHypothesisConfirmed EventKind = "HYPOTHESIS_CONFIRMED"
	KindHypothesisRejected  EventKind = "HYPOTHESIS_REJECTED"
)

// Idle detection.
const (
	KindIdleGap      EventKind = "IDLE_GAP"
	KindIdleReturned EventKind = "IDLE_RETURNED"
	KindFocusLost    EventKind = "FOCUS_LOST"
	KindFocusGained  EventKind = "FOCUS_GAINED"
	KindTabSwitched  EventKind = "TAB_SWITCHED"
)

// Category groups related event kinds for reporting and metric labels.
type Category string

// Event categories.
const (
	CategoryLifecycle   Category = "lifecycle"
	CategoryEditing     Category = "editing"
	CategoryExecution   Category = "execution"
	CategoryError       Category = "error"
	CategoryExploration Category = "exploration"
	CategoryAI          Category = "ai"
	CategoryInterview   Category = "interview"
	CategoryValidation  Category = "validation"
	CategoryIdle        Category = "idle"
)

// categories maps every known kind to its category. Doubles as the
// closed-vocabulary membership check used at ingestion.
var categories = map[EventKind]Category{
	KindSessionStart: CategoryLifecycle, KindSessionResumed: CategoryLifecycle,
	KindSessionCompleted: CategoryLifecycle, KindSessionTerminated: CategoryLifecycle,
	KindPhaseSubmitted: CategoryLifecycle, KindInterviewStarted: CategoryLifecycle,
	KindInterviewCompleted: CategoryLifecycle,

	KindCodeEdit: CategoryEditing, KindCodePasted: CategoryEditing,
	KindCodeDeleted: CategoryEditing, KindCellAdded: CategoryEditing,
	KindCellRemoved: CategoryEditing, KindCellReordered: CategoryEditing,
	KindNotebookCleared: CategoryEditing, KindCommentAdded: CategoryEditing,
	KindQueryModified: CategoryEditing, KindQueryRewritten: CategoryEditing,
	KindSnippetSaved: CategoryEditing,

	KindCodeRun: CategoryExecution, KindSQLRun: CategoryExecution,
	KindRunResult: CategoryExecution, KindRunCancelled: CategoryExecution,
	KindRunTimeout: CategoryExecution, KindKernelRestarted: CategoryExecution,
	KindResultEvaluated: CategoryExecution, KindResultExported: CategoryExecution,

	KindErrorOccurred: CategoryError, KindErrorResolved: CategoryError,
	KindErrorRepeated: CategoryError, KindErrorIgnored: CategoryError,
	KindSyntaxError: CategoryError, KindRuntimeError: CategoryError,
	KindDeadEndReached: CategoryError, KindBreakthrough: CategoryError,
	KindApproachChanged: CategoryError, KindBacktracked: CategoryError,

	KindSchemaExplored: CategoryExploration, KindTablePreviewed: CategoryExploration,
	KindDataQualityChecked: CategoryExploration, KindDataView: CategoryExploration,
	KindColumnInspected: CategoryExploration, KindRowCountChecked: CategoryExploration,
	KindDistributionPlotted: CategoryExploration, KindSampleDrawn: CategoryExploration,
	KindJoinKeyChecked: CategoryExploration, KindDocConsulted: CategoryExploration,

	KindAIPrompt: CategoryAI, KindAIResponse: CategoryAI,
	KindAIResponseUsed: CategoryAI, KindAIResponseRejected: CategoryAI,
	KindAICodeCopied: CategoryAI, KindAICodeModified: CategoryAI,
	KindAISuggestionShown: CategoryAI, KindAISuggestionDismissed: CategoryAI,
	KindAIChatOpened: CategoryAI, KindAIChatClosed: CategoryAI,

	KindInterviewQuestion: CategoryInterview, KindInterviewAnswer: CategoryInterview,
	KindClarificationRequested: CategoryInterview, KindRequirementNoted: CategoryInterview,
	KindAssumptionStated: CategoryInterview, KindSummaryGiven: CategoryInterview,

	KindValidationAttempt: CategoryValidation, KindResultValidated: CategoryValidation,
	KindResultCompared: CategoryValidation, KindOutlierDetected: CategoryValidation,
	KindNullHandled: CategoryValidation, KindEdgeCaseTested: CategoryValidation,
	KindSanityChecked: CategoryValidation, KindInsightNoted: CategoryValidation,
	KindHypothesisFormed: CategoryValidation, KindHypothesisConfirmed: CategoryValidation,
	KindHypothesisRejected: CategoryValidation,

	KindIdleGap: CategoryIdle, KindIdleReturned: CategoryIdle,
	KindFocusLost: CategoryIdle, KindFocusGained: CategoryIdle,
	KindTabSwitched: CategoryIdle,
}

// Valid reports whether k belongs to the closed event vocabulary.
func (k EventKind) Valid() bool {
	_, ok := categories[k]
	return ok
}

// Category returns the category for k, or the empty string for unknown kinds.
func (k EventKind) Category() Category {
	return categories[k]
}

// Kinds returns every known event kind. Order is unspecified.
func Kinds() []EventKind {
	out := make([]EventKind, 0, len(categories))
	for k := range categories {
		out = append(out, k)
	}
	return out
}

// Event is one immutable record of a candidate or system action during a
// session. Ordering within a session is carried by SequenceNumber, which is
// assigned at append time and never inferred from storage order.
type Event struct {
	ID             string         `json:"event_id"`
	SessionID      string         `json:"session_id"`
	Kind           EventKind      `json:"kind"`
	Timestamp      time.Time      `json:"timestamp"`
	SequenceNumber int            `json:"sequence_number"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// MetaString returns the string value under key, or "" when the key is
// absent or holds a non-string. Missing metadata degrades a
// sub-computation, never fails it.
func (e Event) MetaString(key string) string {
	if e.Metadata == nil {
		return ""
	}
	s, _ := e.Metadata[key].(string)
	return s
}
