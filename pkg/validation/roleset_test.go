package validation

import "testing"

func TestAllowedRoles_Base(t *testing.T) {
	allowed := AllowedRoles("amr-1.2")
	for _, want := range []string{"ARG0", "ARG6", "ARGM-TMP", "ARGM-NEG"} {
		if !allowed[want] {
			t.Errorf("expected %q in base role set", want)
		}
	}
	for _, notWant := range []string{"ARGM-CAUS", "ARGM-ADJ", "ARG7"} {
		if allowed[notWant] {
			t.Errorf("did not expect %q in base role set", notWant)
		}
	}
}

func TestAllowedRoles_TrPropbankExtension(t *testing.T) {
	allowed := AllowedRoles("tr-propbank-v2")
	for _, want := range []string{"ARG0", "ARGM-CAUS", "ARGM-ADJ"} {
		if !allowed[want] {
			t.Errorf("expected %q in tr-propbank role set", want)
		}
	}
}

func TestAllowedRoles_CaseInsensitivePrefix(t *testing.T) {
	allowed := AllowedRoles("TR-PropBank")
	if !allowed["ARGM-CAUS"] {
		t.Error("expected case-insensitive tr-propbank match to extend role set")
	}
}

func TestAllowedRoles_UnknownFallsBackToBase(t *testing.T) {
	allowed := AllowedRoles("some-other-scheme")
	if allowed["ARGM-CAUS"] {
		t.Error("unknown role set version should not get the tr-propbank extension")
	}
	if !allowed["ARG0"] {
		t.Error("unknown role set version should still get the base set")
	}
}

func TestNormalizeRoleName(t *testing.T) {
	tests := map[string]string{
		":arg0":  "ARG0",
		":ARG1":  "ARG1",
		":name":  "name",
		":op1":   "op1",
	}
	for in, want := range tests {
		if got := normalizeRoleName(in); got != want {
			t.Errorf("normalizeRoleName(%q) = %q, want %q", in, got, want)
		}
	}
}
