package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"spotnet/src/utils"
)

// unixMillisThreshold separates unix seconds from unix milliseconds in numeric timestamps.
const unixMillisThreshold = 2e10

// ValidateJSON decodes a JSON payload, keeping numbers exact, and validates it.
func ValidateJSON(ctx context.Context, data []byte, lookup DecimalsLookup) (*DashboardResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, &ValidationError{Kind: ErrSchema, Err: fmt.Errorf("decode payload: %w", err)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ValidationError{Kind: ErrSchema, Err: errors.New("unexpected data after payload")}
	}

	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, schemaError("", raw, "payload must be an object")
	}
	return Validate(ctx, obj, lookup)
}

// Validate checks a raw dashboard payload and builds the typed response.
// Field names are accepted in wire or internal spelling. The raw structure is
// only read, never modified.
func Validate(ctx context.Context, raw map[string]interface{}, lookup DecimalsLookup) (*DashboardResponse, error) {
	if lookup == nil {
		return nil, errors.New("serializer: nil decimals lookup")
	}
	if raw == nil {
		return nil, schemaError("", nil, "payload must be an object")
	}

	v := &validator{ctx: ctx, lookup: lookup}
	resp, err := v.dashboard(raw)
	if err != nil {
		logger.WithField("component", "serializer").
			WithError(err).
			Debug("dashboard payload rejected")
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"component": "serializer",
		"assets":    len(resp.Balances),
		"products":  len(resp.ZkLendPosition.Products),
	}).Debug("dashboard payload validated")

	return resp, nil
}

type validator struct {
	ctx    context.Context
	lookup DecimalsLookup
}

func (v *validator) dashboard(raw map[string]interface{}) (*DashboardResponse, error) {
	fields := canonicalFields(raw)
	for _, name := range []string{"balances", "multipliers", "start_dates", "zklend_position"} {
		if _, ok := fields[name]; !ok {
			return nil, schemaError(wireName(name), nil, "field required")
		}
	}

	balances, err := requireObject("balances", fields["balances"])
	if err != nil {
		return nil, err
	}

	multipliers, err := v.multipliers(wireName("multipliers"), fields["multipliers"])
	if err != nil {
		return nil, err
	}

	startDates, err := v.startDates(wireName("start_dates"), fields["start_dates"])
	if err != nil {
		return nil, err
	}

	position, err := v.zkLendPosition(wireName("zklend_position"), fields["zklend_position"])
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Balances:       cloneJSON(balances).(map[string]interface{}),
		Multipliers:    multipliers,
		StartDates:     startDates,
		ZkLendPosition: *position,
	}, nil
}

func (v *validator) multipliers(path string, raw interface{}) (map[string]*int, error) {
	obj, err := requireObject(path, raw)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*int, len(obj))
	for asset, value := range obj {
		n, err := optionalInt(keyPath(path, asset), value)
		if err != nil {
			return nil, err
		}
		out[asset] = n
	}
	return out, nil
}

func (v *validator) startDates(path string, raw interface{}) (map[string]*time.Time, error) {
	obj, err := requireObject(path, raw)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*time.Time, len(obj))
	for asset, value := range obj {
		ts, err := optionalTime(keyPath(path, asset), value)
		if err != nil {
			return nil, err
		}
		out[asset] = ts
	}
	return out, nil
}

func (v *validator) zkLendPosition(path string, raw interface{}) (*ZkLendPositionResponse, error) {
	obj, err := requireObject(path, raw)
	if err != nil {
		return nil, err
	}
	fields := canonicalFields(obj)

	productsAt := fieldPath(path, "products")
	resp := &ZkLendPositionResponse{Products: []Product{}}

	rawProducts, ok := fields["products"]
	if !ok || rawProducts == nil {
		return resp, nil
	}
	list, ok := rawProducts.([]interface{})
	if !ok {
		return nil, schemaError(productsAt, rawProducts, "products must be an array")
	}

	for i, item := range list {
		product, err := v.product(indexPath(productsAt, i), item)
		if err != nil {
			return nil, err
		}
		resp.Products = append(resp.Products, *product)
	}
	return resp, nil
}

func (v *validator) product(path string, raw interface{}) (*Product, error) {
	obj, err := requireObject(path, raw)
	if err != nil {
		return nil, err
	}

	// step one: derive the health ratio from the raw groups
	extracted, err := extractHealthRatio(path, obj)
	if err != nil {
		return nil, err
	}

	// step two: build the record from the combined fields
	fields := canonicalFields(extracted)

	name, err := requireString(fieldPath(path, "name"), fields, "name")
	if err != nil {
		return nil, err
	}

	var healthRatio *string
	if s, ok := fields["health_ratio"].(string); ok {
		healthRatio = &s
	}

	positionsAt := fieldPath(path, "positions")
	rawPositions, ok := fields["positions"]
	if !ok {
		return nil, schemaError(positionsAt, nil, "field required")
	}
	list, ok := rawPositions.([]interface{})
	if !ok {
		return nil, schemaError(positionsAt, rawPositions, "positions must be an array")
	}

	positions := make([]PositionDetail, 0, len(list))
	for i, item := range list {
		position, err := v.position(indexPath(positionsAt, i), item)
		if err != nil {
			return nil, err
		}
		positions = append(positions, *position)
	}

	return &Product{
		Name:        name,
		HealthRatio: healthRatio,
		Positions:   positions,
	}, nil
}

func (v *validator) position(path string, raw interface{}) (*PositionDetail, error) {
	obj, err := requireObject(path, raw)
	if err != nil {
		return nil, err
	}
	fields := canonicalFields(obj)

	data, err := positionData(fieldPath(path, "data"), fields)
	if err != nil {
		return nil, err
	}

	var tokenAddress *string
	tokenAt := fieldPath(path, wireName("token_address"))
	switch t := fields["token_address"].(type) {
	case nil:
	case string:
		tokenAddress = &t
	default:
		return nil, schemaError(tokenAt, t, "token address must be a string")
	}

	balancesAt := fieldPath(path, wireName("total_balances"))
	rawBalances, ok := fields["total_balances"]
	if !ok {
		return nil, schemaError(balancesAt, nil, "field required")
	}
	balancesObj, err := requireObject(balancesAt, rawBalances)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]string, len(balancesObj))
	for token, value := range balancesObj {
		s, err := rawBalance(keyPath(balancesAt, token), value)
		if err != nil {
			return nil, err
		}
		balances[token] = s
	}

	normalized, err := normalizeBalances(v.ctx, balancesAt, balances, v.lookup)
	if err != nil {
		return nil, err
	}

	return &PositionDetail{
		Data:          *data,
		TokenAddress:  tokenAddress,
		TotalBalances: normalized,
	}, nil
}

// rawBalance accepts a balance as a string or a JSON number. Numbers go
// through the same parsing as strings.
func rawBalance(path string, raw interface{}) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", schemaError(path, raw, "balance must be a string or a number")
	}
}

func positionData(path string, fields map[string]interface{}) (*PositionData, error) {
	rawData, ok := fields["data"]
	if !ok {
		return nil, schemaError(path, nil, "field required")
	}
	obj, err := requireObject(path, rawData)
	if err != nil {
		return nil, err
	}

	collateral, err := requireBool(fieldPath(path, "collateral"), obj, "collateral")
	if err != nil {
		return nil, err
	}
	debt, err := requireBool(fieldPath(path, "debt"), obj, "debt")
	if err != nil {
		return nil, err
	}
	return &PositionData{Collateral: collateral, Debt: debt}, nil
}

func requireObject(path string, raw interface{}) (map[string]interface{}, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, schemaError(path, raw, "must be an object")
	}
	return obj, nil
}

func requireString(path string, fields map[string]interface{}, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", schemaError(path, nil, "field required")
	}
	s, ok := raw.(string)
	if !ok {
		return "", schemaError(path, raw, "must be a string")
	}
	return s, nil
}

func requireBool(path string, fields map[string]interface{}, name string) (bool, error) {
	raw, ok := fields[name]
	if !ok {
		return false, schemaError(path, nil, "field required")
	}
	b, ok := raw.(bool)
	if !ok {
		return false, schemaError(path, raw, "must be a boolean")
	}
	return b, nil
}

// optionalInt accepts null, integers, integral floats and integer strings.
func optionalInt(path string, raw interface{}) (*int, error) {
	var n int64
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		i, ok := integralFloat(v)
		if !ok {
			return nil, schemaError(path, v, "must be an integer")
		}
		n = i
	case json.Number:
		if i, err := v.Int64(); err == nil {
			n = i
			break
		}
		f, err := v.Float64()
		if err != nil {
			return nil, schemaError(path, v, "must be an integer")
		}
		i, ok := integralFloat(f)
		if !ok {
			return nil, schemaError(path, v, "must be an integer")
		}
		n = i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, schemaError(path, v, "must be an integer")
		}
		n = i
	default:
		return nil, schemaError(path, raw, "must be an integer")
	}

	if n > math.MaxInt || n < math.MinInt {
		return nil, schemaError(path, raw, "integer out of range")
	}
	out := int(n)
	return &out, nil
}

func integralFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// optionalTime accepts null, timestamp strings and unix seconds (or milliseconds).
func optionalTime(path string, raw interface{}) (*time.Time, error) {
	var (
		ts  time.Time
		err error
	)
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case time.Time:
		ts = v
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		ts = *v
	case string:
		ts, err = utils.ParseTimestamp(v)
		if err != nil {
			if f, ferr := strconv.ParseFloat(strings.TrimSpace(v), 64); ferr == nil {
				ts, err = unixTime(f)
			}
		}
	case json.Number:
		var f float64
		f, err = v.Float64()
		if err == nil {
			ts, err = unixTime(f)
		}
	case float64:
		ts, err = unixTime(v)
	case int:
		ts, err = unixTime(float64(v))
	case int64:
		ts, err = unixTime(float64(v))
	default:
		return nil, schemaError(path, raw, "must be a timestamp")
	}
	if err != nil {
		return nil, &ValidationError{Kind: ErrSchema, Path: path, Value: raw, Err: err}
	}
	return &ts, nil
}

func unixTime(f float64) (time.Time, error) {
	if math.Abs(f) > unixMillisThreshold {
		f /= 1000
	}
	return utils.UnixSeconds(f)
}

// cloneJSON deep-copies decoded JSON so the response never aliases caller-owned maps.
func cloneJSON(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = cloneJSON(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneJSON(item)
		}
		return out
	default:
		return val
	}
}
