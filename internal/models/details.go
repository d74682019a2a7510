package models

import (
	"bytes"
	"encoding/json"
)

// Details is the type-specific payload of a task. The concrete variant is
// selected by the task's type; unknown types and payloads that do not fit
// their variant decode to RawDetails.
type Details interface {
	isDetails()
}

type DocumentAdditionDetails struct {
	ReceivedDocuments *int `json:"receivedDocuments"`
	IndexedDocuments  *int `json:"indexedDocuments"`
}

type DocumentDeletionDetails struct {
	ProvidedIDs      *int    `json:"providedIds"`
	DeletedDocuments *int    `json:"deletedDocuments"`
	OriginalFilter   *string `json:"originalFilter"`
}

// IndexDetails covers index creation and index updates.
type IndexDetails struct {
	PrimaryKey *string `json:"primaryKey"`
}

type IndexDeletionDetails struct {
	DeletedDocuments *int `json:"deletedDocuments"`
}

type IndexSwap struct {
	Indexes []string `json:"indexes"`
}

type IndexSwapDetails struct {
	Swaps []IndexSwap `json:"swaps"`
}

type Pagination struct {
	MaxTotalHits *int `json:"maxTotalHits"`
}

type MinWordSizeForTypos struct {
	OneTypo  *int `json:"oneTypo"`
	TwoTypos *int `json:"twoTypos"`
}

type TypoTolerance struct {
	Enabled             *bool                `json:"enabled"`
	MinWordSizeForTypos *MinWordSizeForTypos `json:"minWordSizeForTypos"`
	DisableOnWords      []string             `json:"disableOnWords"`
	DisableOnAttributes []string             `json:"disableOnAttributes"`
}

// SettingsDetails lists the settings a settingsUpdate task changed.
// Only the settings sent in the update are populated. Filterable attributes
// are either attribute names or pattern objects, so they stay raw.
type SettingsDetails struct {
	RankingRules         []string            `json:"rankingRules"`
	SearchableAttributes []string            `json:"searchableAttributes"`
	DisplayedAttributes  []string            `json:"displayedAttributes"`
	FilterableAttributes []json.RawMessage   `json:"filterableAttributes"`
	SortableAttributes   []string            `json:"sortableAttributes"`
	StopWords            []string            `json:"stopWords"`
	Synonyms             map[string][]string `json:"synonyms"`
	DistinctAttribute    *string             `json:"distinctAttribute"`
	SeparatorTokens      []string            `json:"separatorTokens"`
	NonSeparatorTokens   []string            `json:"nonSeparatorTokens"`
	Dictionary           []string            `json:"dictionary"`
	Pagination           *Pagination         `json:"pagination"`
	TypoTolerance        *TypoTolerance      `json:"typoTolerance"`
}

type DumpDetails struct {
	DumpUID *string `json:"dumpUid"`
}

// TaskFilterDetails covers taskCancelation and taskDeletion.
type TaskFilterDetails struct {
	MatchedTasks   *int    `json:"matchedTasks"`
	CanceledTasks  *int    `json:"canceledTasks"`
	DeletedTasks   *int    `json:"deletedTasks"`
	OriginalFilter *string `json:"originalFilter"`
}

// RawDetails holds a details payload this client does not model.
type RawDetails json.RawMessage

func (DocumentAdditionDetails) isDetails() {}
func (DocumentDeletionDetails) isDetails() {}
func (IndexDetails) isDetails()            {}
func (IndexDeletionDetails) isDetails()    {}
func (IndexSwapDetails) isDetails()        {}
func (SettingsDetails) isDetails()         {}
func (DumpDetails) isDetails()             {}
func (TaskFilterDetails) isDetails()       {}
func (RawDetails) isDetails()              {}

// decodeDetails picks the variant for taskType. A payload that does not fit
// the variant is kept as RawDetails so the task itself still decodes.
func decodeDetails(taskType TaskType, raw json.RawMessage) Details {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch taskType {
	case TaskTypeDocumentAdditionOrUpdate:
		return decodeVariant[DocumentAdditionDetails](trimmed)
	case TaskTypeDocumentDeletion:
		return decodeVariant[DocumentDeletionDetails](trimmed)
	case TaskTypeIndexCreation, TaskTypeIndexUpdate:
		return decodeVariant[IndexDetails](trimmed)
	case TaskTypeIndexDeletion:
		return decodeVariant[IndexDeletionDetails](trimmed)
	case TaskTypeIndexSwap:
		return decodeVariant[IndexSwapDetails](trimmed)
	case TaskTypeSettingsUpdate:
		return decodeVariant[SettingsDetails](trimmed)
	case TaskTypeDumpCreation:
		return decodeVariant[DumpDetails](trimmed)
	case TaskTypeTaskCancelation, TaskTypeTaskDeletion:
		return decodeVariant[TaskFilterDetails](trimmed)
	default:
		return rawDetails(trimmed)
	}
}

func decodeVariant[D Details](raw []byte) Details {
	var details D
	if err := json.Unmarshal(raw, &details); err != nil {
		return rawDetails(raw)
	}
	return details
}

func rawDetails(raw []byte) RawDetails {
	return RawDetails(append([]byte(nil), raw...))
}
