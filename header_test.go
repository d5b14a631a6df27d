package outpost

import "testing"

func TestWriteReadHeaderRoundTrips(t *testing.T) {
	buf := make([]byte, PayloadOffset)
	writeHeader(buf, SchemeWaveletNLS, 0x1234, -987654321, SamplingRate2Hz, Blocksize1024)

	scheme, parameterID, startTime, rate, size := readHeader(buf)
	if scheme != SchemeWaveletNLS {
		t.Errorf("scheme = %v, want %v", scheme, SchemeWaveletNLS)
	}
	if parameterID != 0x1234 {
		t.Errorf("parameterID = %#x, want %#x", parameterID, 0x1234)
	}
	if startTime != -987654321 {
		t.Errorf("startTime = %d, want %d", startTime, -987654321)
	}
	if rate != SamplingRate2Hz {
		t.Errorf("rate = %v, want %v", rate, SamplingRate2Hz)
	}
	if size != Blocksize1024 {
		t.Errorf("size = %v, want %v", size, Blocksize1024)
	}
}

func TestBlocksizeSamples(t *testing.T) {
	cases := map[Blocksize]uint16{
		BlocksizeDisabled: 0,
		Blocksize16:       16,
		Blocksize128:      128,
		Blocksize256:      256,
		Blocksize512:      512,
		Blocksize1024:     1024,
		Blocksize2048:     2048,
		Blocksize4096:     4096,
	}
	for size, want := range cases {
		if got := size.Samples(); got != want {
			t.Errorf("Blocksize(%d).Samples() = %d, want %d", size, got, want)
		}
	}
}

func TestReservedBlocksizeSamplesIsZero(t *testing.T) {
	if got := Blocksize(8).Samples(); got != 0 {
		t.Errorf("Blocksize(8).Samples() = %d, want 0", got)
	}
}

func TestStringersDoNotPanicOnReservedValues(t *testing.T) {
	_ = SamplingRate(9).String()
	_ = Blocksize(9).String()
	_ = CompressionScheme(200).String()
}
