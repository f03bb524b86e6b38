package imaging

import (
	"image"
	"testing"
)

func TestRegion_Validate(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)

	tests := []struct {
		name    string
		region  Region
		wantErr bool
	}{
		{"whole image", Region{0, 0, 100, 80}, false},
		{"inner", Region{10, 10, 20, 20}, false},
		{"single pixel", Region{99, 79, 100, 80}, false},
		{"empty width", Region{10, 10, 10, 20}, true},
		{"inverted", Region{20, 20, 10, 10}, true},
		{"past right edge", Region{50, 0, 101, 10}, true},
		{"negative origin", Region{-1, 0, 10, 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.region.Validate(bounds)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNamedRegion(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)

	tests := []struct {
		name string
		want Region
	}{
		{"", Region{0, 0, 100, 80}},
		{"full", Region{0, 0, 100, 80}},
		{"top-left", Region{0, 0, 50, 40}},
		{"top-right", Region{50, 0, 100, 40}},
		{"bottom-left", Region{0, 40, 50, 80}},
		{"bottom-right", Region{50, 40, 100, 80}},
		{"top-half", Region{0, 0, 100, 40}},
		{"bottom-half", Region{0, 40, 100, 80}},
		{"left-half", Region{0, 0, 50, 80}},
		{"right-half", Region{50, 0, 100, 80}},
		{"center", Region{25, 20, 75, 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NamedRegion(bounds, tt.name)
			if err != nil {
				t.Fatalf("NamedRegion(%q) failed: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("NamedRegion(%q) = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}

	if _, err := NamedRegion(bounds, "middle-ish"); err == nil {
		t.Error("unknown region name should fail")
	}
}

func TestNamedRegion_OffsetBounds(t *testing.T) {
	got, err := NamedRegion(image.Rect(10, 20, 110, 100), "bottom-right")
	if err != nil {
		t.Fatalf("NamedRegion failed: %v", err)
	}
	if want := (Region{60, 60, 110, 100}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCropRegion(t *testing.T) {
	img := createPatternImage(100, 100)

	same, err := CropRegion(img, nil)
	if err != nil {
		t.Fatalf("CropRegion(nil) failed: %v", err)
	}
	if same != image.Image(img) {
		t.Error("nil region should return the source image")
	}

	cropped, err := CropRegion(img, &Region{X1: 50, Y1: 0, X2: 100, Y2: 50})
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if b := cropped.Bounds(); b != image.Rect(0, 0, 50, 50) {
		t.Errorf("bounds: got %v, want (0,0)-(50,50)", b)
	}

	c, err := SampleColor(cropped, 0, 0)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if c.Hex != "#00ff00" {
		t.Errorf("top-right quadrant: got %s, want #00ff00", c.Hex)
	}

	if _, err := CropRegion(img, &Region{X1: 0, Y1: 0, X2: 0, Y2: 10}); err == nil {
		t.Error("empty region should fail")
	}
}
