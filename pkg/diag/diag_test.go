package diag

import "testing"

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"error": LevelError, "0": LevelError,
		"warning": LevelWarning, "1": LevelWarning,
		"verbose": LevelVerbose, "2": LevelVerbose,
		"debug": LevelDebug, "3": LevelDebug,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, true", in, got, ok, want)
		}
	}
	if _, ok := ParseLevel("bogus"); ok {
		t.Errorf("ParseLevel(%q) unexpectedly succeeded", "bogus")
	}
}

func TestSinkReportsErrorsRegardlessOfThreshold(t *testing.T) {
	s := NewSink()
	s.Threshold = LevelError
	s.Errorf(CodeDuplicateKey, 12, "key %q duplicated", "id")
	if !s.HasErrors() {
		t.Fatal("HasErrors() = false after Errorf")
	}
	if got := s.LastError().Code; got != CodeDuplicateKey {
		t.Errorf("LastError().Code = %v, want %v", got, CodeDuplicateKey)
	}
}

func TestSinkDropsBelowThreshold(t *testing.T) {
	s := NewSink()
	s.Threshold = LevelError
	s.Warnf(CodeUnknownStatement, 3, "unknown statement %q", "foo")
	if len(s.warnings) != 0 {
		t.Errorf("warning was recorded despite threshold = error")
	}
}

func TestSinkReset(t *testing.T) {
	s := NewSink()
	s.Errorf(CodeIOError, 0, "boom")
	s.Reset()
	if s.HasErrors() || s.LastError() != nil {
		t.Errorf("Reset did not clear diagnostics")
	}
}
