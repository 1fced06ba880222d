package history

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/chazu/tpc/compiler"
	"github.com/chazu/tpc/vm"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewEntry(t *testing.T) {
	e := NewEntry("2 + 2", vm.Int(4), nil)
	if e.Result != "4" || e.Kind != "Integer" || e.Failed() {
		t.Errorf("NewEntry = %+v", e)
	}

	_, err := compiler.CompileString("1 +")
	e = NewEntry("1 +", vm.Void, err)
	if e.Error != "Unexpected end of code." || !e.Failed() || e.Result != "" {
		t.Errorf("NewEntry(compile error) = %+v", e)
	}

	e = NewEntry("5 / 0", vm.Void, &vm.Error{Kind: vm.StackOverflow})
	if e.Error != "Stack overflow" {
		t.Errorf("NewEntry(vm error) = %+v", e)
	}
}

func TestEntryEncodingCanonical(t *testing.T) {
	e := Entry{Source: "7 / 2.0", Result: "3.5", Kind: "Real"}
	a, err := MarshalEntry(e)
	if err != nil {
		t.Fatal(err)
	}
	b, err := MarshalEntry(e)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("encoding is not deterministic")
	}

	got, err := UnmarshalEntry(a)
	if err != nil {
		t.Fatal(err)
	}
	if got != e {
		t.Errorf("decoded %+v, want %+v", got, e)
	}

	if _, err := UnmarshalEntry([]byte{0xFF}); err == nil {
		t.Error("decoding garbage succeeded")
	}
}

func TestStoreRecordAndRecent(t *testing.T) {
	s := openStore(t)
	session := s.NewSession()
	if _, err := uuid.Parse(session.ID()); err != nil {
		t.Errorf("session id %q is not a uuid: %v", session.ID(), err)
	}

	lines := []Entry{
		{Source: "1", Result: "1", Kind: "Integer"},
		{Source: "1 <", Error: "Unexpected end of code."},
		{Source: "1 < 2", Result: "true", Kind: "Boolean"},
	}
	for _, e := range lines {
		if err := session.Record(e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	recent, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d records", len(recent))
	}
	if recent[0].Source != "1 < 2" || recent[1].Source != "1 <" {
		t.Errorf("Recent order = %q, %q", recent[0].Source, recent[1].Source)
	}
	if recent[0].Session != session.ID() {
		t.Errorf("session = %q, want %q", recent[0].Session, session.ID())
	}
	if recent[0].Created.IsZero() {
		t.Error("created time not set")
	}
}

func TestSessionsAreSeparate(t *testing.T) {
	s := openStore(t)
	a, b := s.NewSession(), s.NewSession()
	if a.ID() == b.ID() {
		t.Fatal("sessions share an id")
	}

	_ = a.Record(Entry{Source: "1"})
	_ = b.Record(Entry{Source: "2"})
	_ = a.Record(Entry{Source: "3"})

	entries, err := a.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Source != "1" || entries[1].Source != "3" {
		t.Errorf("session a entries = %+v", entries)
	}
}

func TestStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.NewSession().Record(Entry{Source: "42", Result: "42", Kind: "Integer"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	recent, err := s.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Result != "42" {
		t.Errorf("after reopen: %+v", recent)
	}
}
