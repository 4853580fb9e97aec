package profile

import (
	"strconv"

	"github.com/matrixeditor/libfp/internal/integration"
)

// Extension-payload codecs are registered by symbolic name so a profile
// definition's extension-args (spec.md §6) can select "bloom", "rolling-
// hash", "tlsh" or "weight" without the config layer importing this
// package's Codec type directly. Numeric args (bloom m/k, rolling-hash
// base/modulus) arrive as extension-args string values and are parsed
// here, where the defaults double as documentation of expected ranges.
func init() {
	integration.Extensions.RegisterWithArgs("bloom", func(args map[string]string) interface{} {
		m := parseUintArg(args["m"], 2048)
		k := parseUintArg(args["k"], 4)
		return BloomCodec(m, k)
	})
	integration.Extensions.RegisterWithArgs("rolling-hash", func(args map[string]string) interface{} {
		base := parseInt64Arg(args["base"], 256)
		modulus := parseInt64Arg(args["modulus"], 1000007)
		return RollingSetCodec(base, modulus)
	})
	integration.Extensions.RegisterWithArgs("tlsh", func(args map[string]string) interface{} {
		return TLSHCodec()
	})
	integration.Extensions.RegisterWithArgs("weight", func(args map[string]string) interface{} {
		return WeightCodec()
	})
	integration.Extensions.RegisterWithArgs("byte-hash", func(args map[string]string) interface{} {
		return ByteHashCodec()
	})
}

func parseUintArg(s string, fallback uint) uint {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fallback
	}
	return uint(n)
}

func parseInt64Arg(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
