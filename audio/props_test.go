package audio

import (
	"reflect"
	"testing"
)

func TestProps(t *testing.T) {
	p := NewProps()
	p.MustRegister("fade", FloatRange(0, 10), 3.0)
	p.MustRegister("gain", FloatRange(0, 1), 1)

	if want, got := []string{"fade", "gain"}, p.Keys(); !reflect.DeepEqual(want, got) {
		t.Errorf("want keys %v, got %v", want, got)
	}
	if want, got := 1.0, p.Float("gain"); want != got {
		t.Errorf("int init: want %v, got %v", want, got)
	}

	tests := []struct {
		value interface{}
		want  float64
		err   bool
	}{
		{1.5, 1.5, false},
		{2, 2, false},
		{"0.25", 0.25, false},
		{"soon", 0.25, true},
		{11.0, 0.25, true},
		{[]int{1}, 0.25, true},
	}
	for _, test := range tests {
		err := p.Set("fade", test.value)
		if (err != nil) != test.err {
			t.Errorf("Set(%v): unexpected error: %v", test.value, err)
		}
		if got := p.Float("fade"); got != test.want {
			t.Errorf("Set(%v): want %v, got %v", test.value, test.want, got)
		}
	}

	if err := p.Set("nope", 1.0); err == nil {
		t.Error("want error for an unknown property")
	}
	if _, err := p.Get("nope"); err == nil {
		t.Error("want error for an unknown property")
	}
}
