package matrix

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
)

type fakeDriver struct {
	mu         sync.Mutex
	frames     [][][]byte
	brightness int
	closed     bool
	err        error
}

func (d *fakeDriver) RenderFrame(frame [][]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := make([][]byte, len(frame))
	for i, row := range frame {
		cp[i] = append([]byte(nil), row...)
	}
	d.frames = append(d.frames, cp)
	return d.err
}

func (d *fakeDriver) SetBrightness(brightness int) error {
	d.brightness = brightness
	return nil
}

func (d *fakeDriver) Close() error {
	d.closed = true
	return nil
}

// TestNewMatrix tests the creation of a new matrix
func TestNewMatrix(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     &Config{Width: 64, Height: 32, Brightness: 128},
			wantErr: false,
		},
		{
			name:    "invalid width",
			cfg:     &Config{Width: 0, Height: 32, Brightness: 128},
			wantErr: true,
		},
		{
			name:    "invalid height",
			cfg:     &Config{Width: 64, Height: 0, Brightness: 128},
			wantErr: true,
		},
		{
			name:    "odd height",
			cfg:     &Config{Width: 64, Height: 31, Brightness: 128},
			wantErr: true,
		},
		{
			name:    "invalid brightness",
			cfg:     &Config{Width: 64, Height: 32, Brightness: 256},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matrix, err := NewMatrix(tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMatrix() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && matrix == nil {
				t.Error("NewMatrix() returned nil matrix when no error expected")
			}
		})
	}
}

// TestMatrixOperations tests basic matrix operations
func TestMatrixOperations(t *testing.T) {
	cfg := &Config{Width: 4, Height: 4, Brightness: 128}
	driver := &fakeDriver{}

	matrix, err := NewMatrix(cfg, driver)
	if err != nil {
		t.Fatalf("Failed to create matrix: %v", err)
	}
	defer matrix.Close()

	if driver.brightness != 128 {
		t.Errorf("driver brightness = %d, want 128", driver.brightness)
	}

	width, height := matrix.GetDimensions()
	if width != cfg.Width || height != cfg.Height {
		t.Errorf("GetDimensions() = %dx%d, want %dx%d", width, height, cfg.Width, cfg.Height)
	}

	if err := matrix.SetBrightness(64); err != nil {
		t.Errorf("SetBrightness() error = %v", err)
	}
	if got := matrix.GetBrightness(); got != 64 || driver.brightness != 64 {
		t.Errorf("GetBrightness() = %d, driver = %d, want 64", got, driver.brightness)
	}
	if err := matrix.SetBrightness(300); err == nil {
		t.Error("SetBrightness(300) did not return error")
	}

	red := color.RGBA{255, 0, 0, 255}
	if err := matrix.SetPixel(0, 0, red); err != nil {
		t.Errorf("SetPixel() error = %v", err)
	}
	if got := matrix.buffer[0]; got != red {
		t.Errorf("buffer[0] = %v, want %v", got, red)
	}

	if err := matrix.SetPixel(-1, 0, red); err == nil {
		t.Error("SetPixel() with negative x did not return error")
	}
	if err := matrix.SetPixel(0, cfg.Height, red); err == nil {
		t.Error("SetPixel() with y >= height did not return error")
	}
	if err := matrix.SetPixel(cfg.Width, 0, red); err == nil {
		t.Error("SetPixel() with x >= width did not return error")
	}
}

// TestShowRowLayout checks the upper and lower halves share a row
func TestShowRowLayout(t *testing.T) {
	driver := &fakeDriver{}
	matrix, err := NewMatrix(&Config{Width: 2, Height: 4, Brightness: 255}, driver)
	if err != nil {
		t.Fatalf("Failed to create matrix: %v", err)
	}

	_ = matrix.SetPixel(0, 0, color.RGBA{255, 0, 0, 255})     // upper half, row 0
	_ = matrix.SetPixel(1, 2, color.RGBA{0, 0, 255, 255})     // lower half, row 0
	_ = matrix.SetPixel(1, 1, color.RGBA{0x40, 0x90, 0, 255}) // only green passes the threshold
	if err := matrix.Show(); err != nil {
		t.Fatalf("Show() error = %v", err)
	}

	if len(driver.frames) != 1 {
		t.Fatalf("driver got %d frames, want 1", len(driver.frames))
	}
	want := [][]byte{
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0},
	}
	for i, row := range driver.frames[0] {
		if string(row) != string(want[i]) {
			t.Errorf("row %d = %v, want %v", i, row, want[i])
		}
	}

	frame := matrix.Frame()
	frame[0][0] = 9
	if matrix.Frame()[0][0] != 1 {
		t.Error("Frame() did not return a copy")
	}
}

func TestClearAndFill(t *testing.T) {
	driver := &fakeDriver{}
	matrix, _ := NewMatrix(&Config{Width: 2, Height: 2, Brightness: 255}, driver)

	if err := matrix.Fill(color.White); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	for _, v := range matrix.Frame()[0] {
		if v != 1 {
			t.Fatalf("Fill(white) row = %v, want all lit", matrix.Frame()[0])
		}
	}

	if err := matrix.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	for _, v := range matrix.Frame()[0] {
		if v != 0 {
			t.Fatalf("Clear() row = %v, want all off", matrix.Frame()[0])
		}
	}
	if len(driver.frames) != 2 {
		t.Errorf("driver got %d frames, want 2", len(driver.frames))
	}
}

func TestSetImage(t *testing.T) {
	matrix, _ := NewMatrix(&Config{Width: 2, Height: 2}, nil)

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(1, 1, color.RGBA{0, 255, 0, 255})
	if err := matrix.SetImage(img); err != nil {
		t.Fatalf("SetImage() error = %v", err)
	}
	if g := matrix.buffer[1*2+1].G; g != 255 {
		t.Errorf("buffer(1, 1) green = %d, want 255", g)
	}

	if err := matrix.SetImage(image.NewRGBA(image.Rect(0, 0, 3, 2))); err == nil {
		t.Error("SetImage() with wrong size did not return error")
	}
}

func TestHeadless(t *testing.T) {
	matrix, _ := NewMatrix(&Config{Width: 2, Height: 2}, nil)
	if err := matrix.Show(); err != nil {
		t.Errorf("Show() without driver error = %v", err)
	}
	if err := matrix.Close(); err != nil {
		t.Errorf("Close() without driver error = %v", err)
	}
}

func TestDriverErrors(t *testing.T) {
	driver := &fakeDriver{err: errors.New("scan stopped")}
	matrix, _ := NewMatrix(&Config{Width: 2, Height: 2}, driver)

	if err := matrix.Show(); err == nil {
		t.Error("Show() did not return driver error")
	}
	_ = matrix.Close()
	if !driver.closed {
		t.Error("Close() did not close the driver")
	}
}

// TestMatrixConcurrency tests concurrent access to the matrix
func TestMatrixConcurrency(t *testing.T) {
	cfg := &Config{Width: 32, Height: 8, Brightness: 128}

	matrix, err := NewMatrix(cfg, &fakeDriver{})
	if err != nil {
		t.Fatalf("Failed to create matrix: %v", err)
	}
	defer matrix.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				x := (i + j) % cfg.Width
				y := (i + j) % cfg.Height
				if err := matrix.SetPixel(x, y, color.RGBA{uint8(i), uint8(j), 0, 255}); err != nil {
					t.Errorf("SetPixel() error = %v", err)
				}
				if j%10 == 0 {
					_ = matrix.Show()
				}
			}
		}(i)
	}
	wg.Wait()
}
