package models

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Lllllllleong/firesafetyreport/internal/checklist"
)

// Status is the inspector's verdict on one checklist item.
type Status int

const (
	StatusUnset Status = iota
	StatusYes
	StatusNo
	StatusNotApplicable
)

var statusText = map[Status]string{
	StatusUnset:         "",
	StatusYes:           "Yes",
	StatusNo:            "No",
	StatusNotApplicable: "N/A",
}

func (s Status) String() string {
	return statusText[s]
}

// ParseStatus accepts the text forms produced by String. The empty string is Unset.
func ParseStatus(text string) (Status, error) {
	for s, t := range statusText {
		if t == text {
			return s, nil
		}
	}
	return StatusUnset, fmt.Errorf("unknown status %q", text)
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseStatus(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// NoCode is the placeholder the form submits when no code is chosen.
const NoCode = "None"

// CodeRef is a code selected from one of the code tables.
type CodeRef struct {
	Table string `json:"table" validate:"required"`
	Code  string `json:"code"`
}

// Selected reports whether the reference names an actual code.
func (c CodeRef) Selected() bool {
	return c.Code != "" && c.Code != NoCode
}

// Answer is one completed checklist line.
type Answer struct {
	Status Status
	Note   string
	Codes  []CodeRef
	Image  []byte
}

// AnswerSet collects the answers of one report-authoring session. It is not safe for
// concurrent use; a session owns its set exclusively.
type AnswerSet struct {
	answers map[checklist.Key]Answer
}

func NewAnswerSet() *AnswerSet {
	return &AnswerSet{answers: make(map[checklist.Key]Answer)}
}

// Set stores or replaces the answer for k.
func (a *AnswerSet) Set(k checklist.Key, ans Answer) {
	if a.answers == nil {
		a.answers = make(map[checklist.Key]Answer)
	}
	a.answers[k] = ans
}

// Lookup returns the stored answer for k, if any.
func (a *AnswerSet) Lookup(k checklist.Key) (Answer, bool) {
	if a == nil {
		return Answer{}, false
	}
	ans, ok := a.answers[k]
	return ans, ok
}

// Get returns the answer for k, or the blank answer (Unset, no note, no codes, no
// image) when nothing was entered.
func (a *AnswerSet) Get(k checklist.Key) Answer {
	ans, _ := a.Lookup(k)
	return ans
}

func (a *AnswerSet) Len() int {
	if a == nil {
		return 0
	}
	return len(a.answers)
}

// Keys returns the stored keys sorted by section title, then item index.
func (a *AnswerSet) Keys() []checklist.Key {
	if a == nil {
		return nil
	}
	keys := make([]checklist.Key, 0, len(a.answers))
	for k := range a.answers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Section != keys[j].Section {
			return keys[i].Section < keys[j].Section
		}
		return keys[i].Item < keys[j].Item
	})
	return keys
}
