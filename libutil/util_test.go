package libutil_test

import (
	"learn-gl/libutil"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type counter struct{ deleted *int }

func (c counter) Delete() { *c.deleted++ }

func TestDeleteAll(t *testing.T) {
	n := 0
	libutil.DeleteAll(counter{&n}, nil, counter{&n})
	if n != 2 {
		t.Errorf("2 items should be deleted but %d were", n)
	}
}

func TestHsl2rgb(t *testing.T) {
	tests := []struct {
		hsl, rgb mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 0.5}, mgl32.Vec3{0.5, 0.5, 0.5}},
		{mgl32.Vec3{0, 1, 0.5}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{1. / 3., 1, 0.5}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{2. / 3., 1, 0.5}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 1, 1}, mgl32.Vec3{1, 1, 1}},
	}
	for _, test := range tests {
		rgb := libutil.Hsl2rgb(test.hsl)
		if rgb.Sub(test.rgb).Len() > 1e-5 {
			t.Errorf("hsl %v should be rgb %v but was %v", test.hsl, test.rgb, rgb)
		}
	}
}
