package serializer

// healthRatioGroup is the only zkLend group consulted for a product's health ratio.
const healthRatioGroup = "1"

// ExtractHealthRatio returns a copy of a raw product without its "groups"
// field and with "health_ratio" set to groups["1"].healthRatio, or nil when
// groups or group "1" is missing. The input map is not modified.
func ExtractHealthRatio(product map[string]interface{}) (map[string]interface{}, error) {
	return extractHealthRatio("", product)
}

func extractHealthRatio(path string, product map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(product))
	for k, v := range product {
		switch k {
		case "groups", "healthRatio", "health_ratio":
			// derived below
		default:
			out[k] = v
		}
	}

	ratio, err := groupHealthRatio(fieldPath(path, "groups"), product["groups"])
	if err != nil {
		return nil, err
	}
	if ratio == nil {
		out["health_ratio"] = nil
	} else {
		out["health_ratio"] = *ratio
	}
	return out, nil
}

func groupHealthRatio(path string, rawGroups interface{}) (*string, error) {
	if rawGroups == nil {
		return nil, nil
	}
	groups, ok := rawGroups.(map[string]interface{})
	if !ok {
		return nil, schemaError(path, rawGroups, "groups must be an object")
	}

	rawGroup, ok := groups[healthRatioGroup]
	if !ok || rawGroup == nil {
		return nil, nil
	}
	groupAt := keyPath(path, healthRatioGroup)
	group, ok := rawGroup.(map[string]interface{})
	if !ok {
		return nil, schemaError(groupAt, rawGroup, "group must be an object")
	}

	switch v := group["healthRatio"].(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	default:
		return nil, schemaError(fieldPath(groupAt, "healthRatio"), v, "health ratio must be a string")
	}
}
