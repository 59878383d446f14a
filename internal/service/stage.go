package service

// Stage is a step of the question-answering state machine.
type Stage int

const (
	StageIdle Stage = iota
	StageChunking
	StageRetrieving
	StageCheckingSufficiency
	StageGeneratingDocumentAnswer
	StageGeneratingGeneralAnswer
	StageDone
)

var stageNames = [...]string{
	"idle",
	"chunking",
	"retrieving",
	"checking_sufficiency",
	"generating_document_answer",
	"generating_general_answer",
	"done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Observer is notified of every stage transition. It runs synchronously on the
// calling goroutine.
type Observer func(documentID string, stage Stage)
