package pack

import (
	"encoding/json"
	"fmt"
)

// Validate runs the minimal structural checks of Pack Standard v1 against
// raw JSON text and returns the findings, empty when the pack conforms.
// This is an explicit opt-in check; the resolver itself never validates,
// it degrades to absent on any mismatch.
func Validate(data []byte) []string {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return []string{fmt.Sprintf("not valid JSON: %v", err)}
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return []string{"root must be an object"}
	}

	var findings []string
	fail := func(format string, args ...any) {
		findings = append(findings, fmt.Sprintf(format, args...))
	}

	if obj["schema"] != SchemaV1 {
		fail("schema must be %q", SchemaV1)
	}

	gpu, _ := obj["gpu"].(map[string]any)
	if name, _ := gpu["name"].(string); name == "" {
		fail("gpu.name must be a non-empty string")
	}

	metrics, ok := obj["metrics"].(map[string]any)
	if !ok {
		fail("metrics must be an object")
		return findings
	}
	for _, block := range []string{"omega", "baseline"} {
		m, ok := metrics[block].(map[string]any)
		if !ok {
			fail("metrics.%s must be an object", block)
			continue
		}
		for _, k := range []string{"qps", "lat_p95_ms", "top1_accuracy"} {
			v, present := m[k]
			if !present {
				fail("metrics.%s.%s missing", block, k)
				continue
			}
			if v != nil && !isJSONNumber(v) {
				fail("metrics.%s.%s must be number|null", block, k)
			}
		}
		if acc, ok := m["top1_accuracy"].(float64); ok && (acc < 0.0 || acc > 1.0) {
			fail("metrics.%s.top1_accuracy out of range [0,1]", block)
		}
	}

	if list, ok := obj["disclaimers"].([]any); !ok || len(list) == 0 {
		fail("disclaimers must be a non-empty string array")
	} else {
		for _, d := range list {
			if _, ok := d.(string); !ok {
				fail("disclaimers must be a non-empty string array")
				break
			}
		}
	}

	validateTelemetry(obj, fail)
	return findings
}

func validateTelemetry(obj map[string]any, fail func(string, ...any)) {
	tel, present := obj["telemetry"]
	if !present {
		return
	}
	telObj, ok := tel.(map[string]any)
	if !ok {
		fail("telemetry must be an object if present")
		return
	}
	for _, block := range []string{"omega", "baseline"} {
		b, present := telObj[block]
		if !present {
			continue
		}
		bObj, ok := b.(map[string]any)
		if !ok {
			fail("telemetry.%s must be an object", block)
			continue
		}
		gpu, present := bObj["gpu"]
		if !present {
			continue
		}
		gpuObj, ok := gpu.(map[string]any)
		if !ok {
			fail("telemetry.%s.gpu must be an object", block)
			continue
		}
		ts, tsIsList := numberList(gpuObj["t_s"])
		pw, pwIsList := numberList(gpuObj["power_w"])
		if gpuObj["t_s"] != nil && !tsIsList {
			fail("telemetry.%s.gpu.t_s must be a number array if present", block)
		}
		if gpuObj["power_w"] != nil && !pwIsList {
			fail("telemetry.%s.gpu.power_w must be a number array if present", block)
		}
		if tsIsList && pwIsList && len(ts) != len(pw) {
			fail("telemetry.%s.gpu arrays must have matching lengths (t_s vs power_w)", block)
		}
	}
}

// isJSONNumber reports whether a decoded JSON value is a number literal.
// Deliberately stricter than Number: the validator rejects numeric
// strings, matching the published schema.
func isJSONNumber(v any) bool {
	_, ok := v.(float64)
	return ok
}

func numberList(v any) ([]float64, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(list))
	for _, e := range list {
		f, ok := e.(float64)
		if !ok {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}
