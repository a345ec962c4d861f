package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/mediai/internal/interpret"
	"github.com/dgallion1/mediai/internal/patient"
)

type fakeStore struct {
	data    map[string][]byte
	saveErr error
	loadErr error
	down    bool
	saves   int
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string][]byte{}} }

func (s *fakeStore) Load(_ context.Context, slot string) ([]byte, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.data[slot], nil
}

func (s *fakeStore) Save(_ context.Context, slot string, data []byte) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[slot] = append([]byte(nil), data...)
	return nil
}

func (s *fakeStore) Available(context.Context) bool { return !s.down }

func fixedBuilder() Builder {
	n := 0
	return Builder{
		Now: func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func TestBuild_MildLabel(t *testing.T) {
	rec := fixedBuilder().Build("Likely mild - self-care is advised", patient.Data{Age: "40", Sex: patient.GenderMale})
	if rec.TriageLevel != "Likely Mild – Self-care" {
		t.Errorf("expected mild label, got %q", rec.TriageLevel)
	}
	if rec.ID != "id-1" || rec.PatientAge != "40" || rec.PatientSex != "Male" {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.Level() != interpret.TriageMild {
		t.Errorf("expected mild level, got %q", rec.Level())
	}
}

func TestBuild_TriageLabels(t *testing.T) {
	tests := []struct {
		markdown string
		want     string
	}{
		{"## Triage\nSeek immediate care now.", interpret.LabelEmergency},
		{"Medical attention advised within days.", interpret.LabelUrgent},
		{"## 🚨 Triage & Urgency\nSee a doctor soon.\n## Possible Explanations\nRarely an emergency.", interpret.LabelUrgent},
		{"Nothing conclusive.", interpret.LabelUnknown},
	}
	for _, tt := range tests {
		if got := fixedBuilder().Build(tt.markdown, patient.Data{}).TriageLevel; got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.markdown, tt.want, got)
		}
	}
}

func TestQuickSummary(t *testing.T) {
	md := "## ⚠️ Safety Disclaimer\nNot a doctor.\n## 📋 Summary of Understanding\nA **34-year-old** with fever.\n\nCough for 3 days.\n## 🚨 Triage & Urgency\nSee a doctor soon."
	if got := QuickSummary(md); got != "A 34-year-old with fever. Cough for 3 days." {
		t.Errorf("unexpected summary %q", got)
	}

	glyph := "📋 Quick Summary\nShort.\n✅ Next\nIgnored."
	if got := QuickSummary(glyph); got != "Short." {
		t.Errorf("unexpected summary %q", got)
	}

	if got := QuickSummary("## Triage\nmild"); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}

func TestQuickSummary_Truncates(t *testing.T) {
	md := "## Summary of Understanding\n" + strings.Repeat("a", 500)
	got := QuickSummary(md)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected continuation marker, got %q", got)
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, "...")); n != MaxSummaryRunes {
		t.Errorf("expected %d runes before marker, got %d", MaxSummaryRunes, n)
	}

	multi := "## Summary of Understanding\n" + strings.Repeat("é", 200)
	if !utf8.ValidString(QuickSummary(multi)) {
		t.Error("expected valid UTF-8 after truncation")
	}
}

func TestRecordJSONKeys(t *testing.T) {
	rec := fixedBuilder().Build("x", patient.Data{Age: "9"})
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"id"`, `"createdAt"`, `"patientAge"`, `"triageLevel"`, `"summaryQuick"`, `"markdown"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("expected key %s in %s", key, data)
		}
	}
}

func TestLog_AppendNewestFirstAndPersist(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	log := Open(ctx, store, "", 0, nil)
	if !log.Persistent() {
		t.Fatal("expected persistent log")
	}

	b := fixedBuilder()
	log.Append(ctx, b.Build("first", patient.Data{}))
	log.Append(ctx, b.Build("second", patient.Data{}))

	list := log.List()
	if len(list) != 2 || list[0].ID != "id-2" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	reopened := Open(ctx, store, DefaultSlot, 0, nil)
	if reopened.Len() != 2 {
		t.Fatalf("expected 2 persisted records, got %d", reopened.Len())
	}
	if r, ok := reopened.Get("id-1"); !ok || r.Markdown != "first" {
		t.Errorf("expected id-1 to round-trip, got %+v %v", r, ok)
	}
}

func TestLog_LimitEvictsOldest(t *testing.T) {
	ctx := context.Background()
	log := Open(ctx, newFakeStore(), "", 2, nil)
	b := fixedBuilder()
	for i := 0; i < 3; i++ {
		log.Append(ctx, b.Build("m", patient.Data{}))
	}
	list := log.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[0].ID != "id-3" || list[1].ID != "id-2" {
		t.Errorf("expected id-3, id-2; got %s, %s", list[0].ID, list[1].ID)
	}
}

func TestLog_SaveFailureIsNonFatal(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	ctx := context.Background()
	log := Open(ctx, store, "", 0, nil)

	log.Append(ctx, fixedBuilder().Build("m", patient.Data{}))
	if log.Len() != 1 {
		t.Fatalf("expected in-memory append despite save failure, got %d", log.Len())
	}
	if store.saves != 1 {
		t.Errorf("expected one save attempt, got %d", store.saves)
	}
}

func TestLog_UnavailableAndCorruptStores(t *testing.T) {
	ctx := context.Background()

	down := newFakeStore()
	down.down = true
	log := Open(ctx, down, "", 0, nil)
	log.Append(ctx, fixedBuilder().Build("m", patient.Data{}))
	if log.Persistent() || down.saves != 0 || log.Len() != 1 {
		t.Errorf("expected memory-only log, persistent=%v saves=%d len=%d", log.Persistent(), down.saves, log.Len())
	}

	corrupt := newFakeStore()
	corrupt.data[DefaultSlot] = []byte("{not json")
	log = Open(ctx, corrupt, "", 0, nil)
	log.Append(ctx, fixedBuilder().Build("m", patient.Data{}))
	if string(corrupt.data[DefaultSlot]) != "{not json" {
		t.Error("expected corrupt slot to be left untouched")
	}

	nilStore := Open(ctx, nil, "", 0, nil)
	nilStore.Append(ctx, fixedBuilder().Build("m", patient.Data{}))
	if nilStore.Len() != 1 {
		t.Error("expected nil store to keep records in memory")
	}
}

func TestQueryMatch(t *testing.T) {
	emergency := Record{TriageLevel: interpret.LabelEmergency, Conditions: "Asthma", PatientAge: "61"}
	urgent := Record{TriageLevel: interpret.LabelUrgent, SummaryQuick: "Fever and cough"}
	mild := Record{TriageLevel: interpret.LabelMild}

	tests := []struct {
		name string
		q    Query
		r    Record
		want bool
	}{
		{"all", Query{Level: FilterAll}, mild, true},
		{"emergency match", Query{Level: FilterEmergency}, emergency, true},
		{"emergency miss", Query{Level: FilterEmergency}, urgent, false},
		{"urgent by soon", Query{Level: FilterUrgent}, urgent, true},
		{"mild", Query{Level: FilterMild}, mild, true},
		{"search conditions", Query{Search: "asthma"}, emergency, true},
		{"search summary", Query{Search: "COUGH"}, urgent, true},
		{"search age", Query{Search: "61"}, emergency, true},
		{"search miss", Query{Search: "rash"}, urgent, false},
		{"level and search", Query{Level: FilterUrgent, Search: "asthma"}, emergency, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Match(tt.r); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseLevelFilter(t *testing.T) {
	if f, err := ParseLevelFilter(""); err != nil || f != FilterAll {
		t.Errorf("expected all, got %q %v", f, err)
	}
	if f, err := ParseLevelFilter("Emergency"); err != nil || f != FilterEmergency {
		t.Errorf("expected emergency, got %q %v", f, err)
	}
	if _, err := ParseLevelFilter("severe"); err == nil {
		t.Error("expected error")
	}
}
