package filename

import "testing"

func TestSecure(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My cool paper.pdf", "My_cool_paper.pdf"},
		{"../../../etc/passwd", "etc_passwd"},
		{`C:\Users\me\thesis.PDF`, "C_Users_me_thesis.PDF"},
		{"Résumé für Müller.pdf", "Resume_fur_Muller.pdf"},
		{"  spaced\tout  .pdf ", "spaced_out_.pdf"},
		{"论文.pdf", "pdf"},
		{"...", ""},
		{"a$b%c&d.pdf", "abcd.pdf"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := Secure(tc.in); got != tc.want {
				t.Errorf("Secure(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
