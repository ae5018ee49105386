package record_test

import (
	"errors"
	"testing"

	"github.com/tailored-agentic-units/recordstore/record"
)

func TestGetRelationship(t *testing.T) {
	res := newMapResolver("notes")
	stored := newNote("1", "hello")
	res.records["notes"]["1"] = stored

	tests := []struct {
		name    string
		id      string
		want    record.Record
		wantErr error
	}{
		{name: "present", id: "1", want: stored},
		{name: "absent", id: "2", wantErr: record.ErrNotFound},
		{name: "empty relation id", id: "", wantErr: record.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := record.GetRelationship(res, "notes", tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetRelationship() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("GetRelationship() = %v, want %v", got, tt.want)
			}
		})
	}

	if res.appends != 0 {
		t.Errorf("GetRelationship appended %d records, want 0", res.appends)
	}
}

func TestRelated_TypeMismatch(t *testing.T) {
	res := newMapResolver("notes")
	res.records["notes"]["1"] = &tag{Base: record.NewBase("1")}

	_, err := record.Related[*note](res, "notes", "1")
	if !errors.Is(err, record.ErrTypeMismatch) {
		t.Errorf("Related() error = %v, want ErrTypeMismatch", err)
	}
}

func TestRelated_Typed(t *testing.T) {
	res := newMapResolver("notes")
	res.records["notes"]["1"] = newNote("1", "hello")

	n, err := record.Related[*note](res, "notes", "1")
	if err != nil {
		t.Fatalf("Related() error = %v", err)
	}
	if n.Text() != "hello" {
		t.Errorf("Text() = %q, want %q", n.Text(), "hello")
	}
}

func TestSetRelationship_RegistersNewModel(t *testing.T) {
	res := newMapResolver("notes")
	model := newNote("5", "new")
	var slot string

	if err := record.SetRelationship(res, "notes", &slot, model); err != nil {
		t.Fatalf("SetRelationship() error = %v", err)
	}

	if slot != "5" {
		t.Errorf("slot = %q, want %q", slot, "5")
	}
	found, err := res.Find("notes", "5")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if found != model {
		t.Error("Find() did not return the linked model")
	}
	if res.appends != 1 {
		t.Errorf("appends = %d, want 1", res.appends)
	}
}

func TestSetRelationship_ExistingModelNotAppended(t *testing.T) {
	res := newMapResolver("notes")
	model := newNote("5", "existing")
	res.records["notes"]["5"] = model
	var slot string

	if err := record.SetRelationship(res, "notes", &slot, model); err != nil {
		t.Fatalf("SetRelationship() error = %v", err)
	}
	if slot != "5" {
		t.Errorf("slot = %q, want %q", slot, "5")
	}
	if res.appends != 0 {
		t.Errorf("appends = %d, want 0", res.appends)
	}
}

func TestSetRelationship_Clears(t *testing.T) {
	var typedNil *note

	tests := []struct {
		name  string
		model record.Record
	}{
		{name: "nil model", model: nil},
		{name: "typed nil model", model: typedNil},
		{name: "model without id", model: newNote("", "unsaved")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newMapResolver("notes")
			slot := "previous"

			if err := record.SetRelationship(res, "notes", &slot, tt.model); err != nil {
				t.Fatalf("SetRelationship() error = %v", err)
			}
			if slot != "" {
				t.Errorf("slot = %q, want empty", slot)
			}
			if res.appends != 0 {
				t.Errorf("appends = %d, want 0", res.appends)
			}
			if len(res.records["notes"]) != 0 {
				t.Errorf("store holds %d records, want 0", len(res.records["notes"]))
			}
		})
	}
}

func TestSetRelationship_RejectedLeavesSlot(t *testing.T) {
	res := newMapResolver("notes")
	res.reject = record.ErrTypeMismatch
	slot := "previous"

	err := record.SetRelationship(res, "notes", &slot, newNote("5", "x"))
	if !errors.Is(err, record.ErrTypeMismatch) {
		t.Fatalf("error = %v, want ErrTypeMismatch", err)
	}
	if slot != "previous" {
		t.Errorf("slot = %q, want unchanged %q", slot, "previous")
	}
}

func TestSetRelationship_UnknownCollection(t *testing.T) {
	res := newMapResolver("notes")
	slot := "previous"

	err := record.SetRelationship(res, "missing", &slot, newNote("5", "x"))
	if err == nil {
		t.Fatal("SetRelationship() error = nil, want unknown collection error")
	}
	if slot != "previous" {
		t.Errorf("slot = %q, want unchanged %q", slot, "previous")
	}
}

// racedResolver stores the record on Append as if a concurrent caller had
// registered it first, then reports the append as a duplicate.
type racedResolver struct {
	*mapResolver
	winner record.Record
}

func (r *racedResolver) Append(collection string, rec record.Record) error {
	r.records[collection][rec.ID()] = r.winner
	return errors.New("duplicate record id")
}

func TestSetRelationship_ConcurrentRegistration(t *testing.T) {
	model := newNote("5", "shared")

	tests := []struct {
		name    string
		winner  record.Record
		wantErr bool
		want    string
	}{
		{name: "same record stored first", winner: model, want: "5"},
		{name: "other record took the id", winner: newNote("5", "other"), wantErr: true, want: "previous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &racedResolver{mapResolver: newMapResolver("notes"), winner: tt.winner}
			slot := "previous"

			err := record.SetRelationship(res, "notes", &slot, model)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetRelationship() error = %v, wantErr %v", err, tt.wantErr)
			}
			if slot != tt.want {
				t.Errorf("slot = %q, want %q", slot, tt.want)
			}
		})
	}
}
