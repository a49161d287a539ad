package errs

import "testing"

func TestErrorMessagesIncludeFields(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"OutOfMemory", &OutOfMemory{Allocated: 2097152, Tried: 4096, Limit: 2097152}, "out of memory: allocated 2097152 bytes, tried to allocate 4096, limit 2097152"},
		{"SizeOverflow", &SizeOverflow{Nmemb: 1 << 40, Size: 1 << 40, Offset: 0}, "integer overflow computing allocation size: nmemb=1099511627776 size=1099511627776 offset=0"},
		{"RecursionTooDeep", &RecursionTooDeep{Limit: 64}, "possible infinite recursion: nesting exceeded 64"},
		{"Corruption", &Corruption{Detail: "freelist cycle"}, "heap corruption detected: freelist cycle"},
		{"Misuse", &Misuse{Detail: "double free"}, "allocator misuse: double free"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.err.Error(); got != c.want {
				t.Fatalf("Error() = %q, want %q", got, c.want)
			}
		})
	}
}
