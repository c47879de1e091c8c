package serializer

// wireToInternal lists every field whose wire name differs from its internal
// name. Payloads may use either spelling. When an object carries both, the
// wire spelling wins.
var wireToInternal = map[string]string{
	"startDates":     "start_dates",
	"zklendPosition": "zklend_position",
	"tokenAddress":   "token_address",
	"totalBalances":  "total_balances",
	"healthRatio":    "health_ratio",
}

var internalToWire = func() map[string]string {
	m := make(map[string]string, len(wireToInternal))
	for wire, internal := range wireToInternal {
		m[internal] = wire
	}
	return m
}()

// canonicalFields returns a copy of obj keyed by internal names.
// Only the object's own keys are renamed; nested values are left untouched.
func canonicalFields(obj map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		if _, isWire := wireToInternal[k]; isWire {
			continue
		}
		out[k] = v
	}
	for wire, internal := range wireToInternal {
		if v, ok := obj[wire]; ok {
			out[internal] = v
		}
	}
	return out
}

// wireName is the spelling used in error paths.
func wireName(internal string) string {
	if wire, ok := internalToWire[internal]; ok {
		return wire
	}
	return internal
}
