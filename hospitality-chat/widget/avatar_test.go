package widget

import "testing"

func TestInitials(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"Front Desk", "FD"},
		{"Concierge", "C"},
		{"assistant", "A"},
		{"night shift desk manager", "NS"},
		{"  Front   Desk  ", "FD"},
		{"élan vital", "ÉV"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := Initials(tt.role); got != tt.want {
				t.Errorf("Initials(%q) = %q, want %q", tt.role, got, tt.want)
			}
		})
	}
}

func TestHashCode(t *testing.T) {
	// Values computed with the browser's ((h << 5) - h) + charCode reduction.
	tests := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"hello", 99162322},
		{"assistant1", 1375004947},
		{"Agent1", 1959135724},
		{"Front Desk1", -1635353663},
		{"é日本1", 32827809},
		{"😀1", 54959918},
	}
	for _, tt := range tests {
		if got := HashCode(tt.in); got != tt.want {
			t.Errorf("HashCode(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestGradientFor(t *testing.T) {
	tests := []struct {
		role string
		want Gradient
	}{
		{"assistant", Gradient{From: "F4E913", To: "F4E914"}},
		{"Agent", Gradient{From: "C609EC", To: "C609ED"}},
		{"Front Desk", Gradient{From: "867BC1", To: "867BC2"}},
		{"Concierge", Gradient{From: "A06EFE", To: "A06EFF"}},
		{"", Gradient{From: "000031", To: "000032"}},
		{"a", Gradient{From: "000BF0", To: "000BF1"}},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			got := GradientFor(tt.role)
			if got != tt.want {
				t.Errorf("GradientFor(%q) = %+v, want %+v", tt.role, got, tt.want)
			}
			if again := GradientFor(tt.role); again != got {
				t.Errorf("GradientFor(%q) not stable: %+v then %+v", tt.role, got, again)
			}
		})
	}
}

func TestGradientCSS(t *testing.T) {
	g := Gradient{From: "F4E913", To: "F4E914"}
	want := "linear-gradient(135deg, #F4E913, #F4E914)"
	if got := g.CSS(); got != want {
		t.Errorf("CSS() = %q, want %q", got, want)
	}
}

func TestRGB(t *testing.T) {
	r, g, b := rgb("867BC1")
	if r != 0x86 || g != 0x7B || b != 0xC1 {
		t.Errorf("rgb(867BC1) = %d,%d,%d", r, g, b)
	}
}
