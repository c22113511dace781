package encoding

import "testing"

func TestVarintRoundTrip(t *testing.T) {
	cases := []uint64{
		0, 1, 127, 128, 16383, 16384,
		1 << 20, 1 << 27, 1 << 34, 1 << 41, 1 << 48, 1 << 55,
		^uint64(0),
	}

	buf := make([]byte, 9)
	for _, v := range cases {
		n := PutVarint(buf, v)
		if n != VarintLen(v) {
			t.Fatalf("PutVarint(%d) wrote %d bytes, VarintLen says %d", v, n, VarintLen(v))
		}
		got, read := GetVarint(buf[:n])
		if got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
		if read != n {
			t.Errorf("round trip %d: GetVarint read %d bytes, want %d", v, read, n)
		}
	}
}

func TestVarintLenBoundaries(t *testing.T) {
	cases := []struct {
		v    uint64
		want int
	}{
		{0, 1}, {0x7F, 1},
		{0x80, 2}, {0x3FFF, 2},
		{0x4000, 3}, {0x1FFFFF, 3},
		{0xFFFFFFFFFFFFFF + 1, 9},
	}
	for _, c := range cases {
		if got := VarintLen(c.v); got != c.want {
			t.Errorf("VarintLen(%#x) = %d, want %d", c.v, got, c.want)
		}
	}
}
