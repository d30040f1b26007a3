package filter

import (
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestFlateRoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty":      {},
		"short":      []byte("hello, world"),
		"binary":     {0, 1, 2, 255, 254, 0, 0, 0, 7},
		"repetitive": bytes.Repeat([]byte("abcabc"), 500),
	}
	for name, in := range inputs {
		for level := 0; level <= 9; level++ {
			enc, err := FlateEncode(in, level)
			if err != nil {
				t.Fatalf("%s level %d: encode: %v", name, level, err)
			}
			got, err := FlateDecode(DefaultParams(), enc)
			if err != nil {
				t.Fatalf("%s level %d: decode: %v", name, level, err)
			}
			if !bytes.Equal(got, in) {
				t.Errorf("%s level %d: round trip mismatch", name, level)
			}
		}
	}
}

func TestFlateHeaderlessFallback(t *testing.T) {
	// Raw deflate data with the zlib header stripped, as emitted by
	// non-conformant producers.
	full, err := FlateEncode([]byte("predictable text"), 6)
	if err != nil {
		t.Fatal(err)
	}
	raw := full[2 : len(full)-4] // drop zlib header and Adler-32 trailer

	got, err := FlateDecode(DefaultParams(), raw)
	if err != nil {
		t.Fatalf("decode raw deflate: %v", err)
	}
	if string(got) != "predictable text" {
		t.Errorf("got %q", got)
	}
}

func TestTIFFPredictor(t *testing.T) {
	// Two rows of four columns, one color, 8 bits: horizontal deltas.
	p := Params{Predictor: 2, Columns: 4, Colors: 1, BitsPerComponent: 8}
	pred := []byte{
		10, 5, 5, 5, // 10 15 20 25
		1, 1, 1, 1, // 1 2 3 4
	}
	enc, err := FlateEncode(pred, 6)
	if err != nil {
		t.Fatal(err)
	}
	got, err := FlateDecode(p, enc)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 15, 20, 25, 1, 2, 3, 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error("TIFF predictor mismatch:", diff)
	}
}

func TestPNGPredictor(t *testing.T) {
	p := Params{Predictor: 12, Columns: 3, Colors: 1, BitsPerComponent: 8}

	t.Run("none and sub rows", func(t *testing.T) {
		pred := []byte{
			0, 7, 8, 9, // None: verbatim
			1, 10, 1, 1, // Sub: 10 11 12
		}
		got, err := undoPredictor(p, pred)
		if err != nil {
			t.Fatal(err)
		}
		want := []byte{7, 8, 9, 10, 11, 12}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Error("PNG predictor mismatch:", diff)
		}
	})

	t.Run("up row unsupported", func(t *testing.T) {
		_, err := undoPredictor(p, []byte{2, 1, 2, 3})
		if !errors.Is(err, ErrUnsupportedPredictor) {
			t.Errorf("got %v, want ErrUnsupportedPredictor", err)
		}
	})

	t.Run("bad predictor value", func(t *testing.T) {
		_, err := undoPredictor(Params{Predictor: 7, Columns: 1, Colors: 1, BitsPerComponent: 8}, []byte{1})
		if !errors.Is(err, ErrBadPredictor) {
			t.Errorf("got %v, want ErrBadPredictor", err)
		}
	})
}

func TestRunLengthDecode(t *testing.T) {
	testCases := map[string]struct {
		input []byte
		want  []byte
	}{
		"empty":       {input: nil, want: nil},
		"eod only":    {input: []byte{128}, want: nil},
		"literal run": {input: []byte{2, 'a', 'b', 'c', 128}, want: []byte("abc")},
		"repeat run":  {input: []byte{254, 'x', 128}, want: []byte("xxx")},
		"mixed":       {input: []byte{2, 97, 98, 99, 255, 65, 128}, want: []byte("abcAA")},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := RunLengthDecode(tc.input)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}

	t.Run("truncated literal", func(t *testing.T) {
		_, err := RunLengthDecode([]byte{5, 'a'})
		if !errors.Is(err, ErrTruncatedStream) {
			t.Errorf("got %v, want ErrTruncatedStream", err)
		}
	})
}

func TestRunLengthRoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("a"),
		[]byte("abcdef"),
		bytes.Repeat([]byte{0x55}, 300),
		append([]byte("literal then "), bytes.Repeat([]byte("r"), 40)...),
	}
	for _, in := range inputs {
		got, err := RunLengthDecode(RunLengthEncode(in))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, in) {
			t.Errorf("round trip mismatch for %q", in)
		}
	}
}

func TestLZWDecode(t *testing.T) {
	// 9-bit codes: CLEAR(256) 'A'(65) 'B'(66) STOP(257), packed big-endian:
	// 100000000 001000001 001000010 100000001 -> 80 10 48 50 10.
	fixture := []byte{0x80, 0x10, 0x48, 0x50, 0x10}
	got, err := LZWDecode(DefaultParams(), fixture)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "AB" {
		t.Errorf("got %q, want %q", got, "AB")
	}
}

func TestLZWMissingStop(t *testing.T) {
	// Same fixture with the stop code cut off.
	_, err := LZWDecode(DefaultParams(), []byte{0x80, 0x10, 0x48})
	if !errors.Is(err, ErrTruncatedStream) {
		t.Errorf("got %v, want ErrTruncatedStream", err)
	}
}

func TestASCIIHexDecode(t *testing.T) {
	testCases := map[string]struct {
		input string
		want  string
	}{
		"simple":          {"68656c6c6f>", "hello"},
		"whitespace":      {"68 65\n6c 6c 6f >", "hello"},
		"odd digit count": {"68656c6c6f7>", "hellop"},
		"no marker":       {"6869", "hi"},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := ASCIIHexDecode([]byte(tc.input))
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}

	t.Run("bad digit", func(t *testing.T) {
		if _, err := ASCIIHexDecode([]byte("6z>")); !errors.Is(err, ErrMalformedEncoding) {
			t.Errorf("got %v, want ErrMalformedEncoding", err)
		}
	})
}

func TestASCIIRoundTrips(t *testing.T) {
	inputs := [][]byte{
		{},
		[]byte("x"),
		[]byte("hello, world"),
		{0, 1, 2, 3, 252, 253, 254, 255},
		bytes.Repeat([]byte{0}, 9), // exercises the ascii85 z shorthand
	}
	for _, in := range inputs {
		hexed, err := ASCIIHexDecode(ASCIIHexEncode(in))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(hexed, in) {
			t.Errorf("hex round trip mismatch for %v", in)
		}

		b85, err := ASCII85Decode(ASCII85Encode(in))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(b85, in) {
			t.Errorf("ascii85 round trip mismatch for %v", in)
		}
	}
}

func TestChain(t *testing.T) {
	src := []byte("chained payload")
	flated, err := FlateEncode(src, zlib.BestCompression)
	if err != nil {
		t.Fatal(err)
	}
	data := ASCII85Encode(flated)

	got, err := Chain([]string{"ASCII85Decode", "FlateDecode"}, nil, data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, src) {
		t.Errorf("got %q, want %q", got, src)
	}

	t.Run("unknown filter", func(t *testing.T) {
		_, err := Chain([]string{"BogusDecode"}, nil, src)
		if !errors.Is(err, ErrUnsupportedFilter) {
			t.Errorf("got %v, want ErrUnsupportedFilter", err)
		}
	})

	t.Run("image codec passthrough", func(t *testing.T) {
		got, err := Chain([]string{"DCTDecode"}, nil, src)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, src) {
			t.Error("DCT payload should pass through unchanged")
		}
	})
}
