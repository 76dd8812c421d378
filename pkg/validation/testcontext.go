package validation

// TestContext returns the comprehensive sample context used to dry-render
// a template when no real parameter values exist yet, covering the
// parameter names and shapes dashboard templates commonly reference.
// Callers overlay template defaults on top of it.
func TestContext() map[string]any {
	return map[string]any{
		"ENV_NAME":    "test",
		"environment": "test",

		"dashboard_title":       "Test Dashboard",
		"dashboard_description": "Test dashboard for validation",

		"primary_index":           "security",
		"streams_index":           "streams",
		"expected_sources_lookup": "expected_data_sources.csv",

		// Arrays are the most common cause of template breakage.
		"secondary_indexes":       []any{"firewall", "ids", "proxy", "endpoint"},
		"capture_interfaces":      []any{"eth0", "eth1", "bond0"},
		"streams_sourcetypes":     []any{"stream:tcp", "stream:udp", "stream:icmp", "stream:dns", "stream:http"},
		"data_models_to_validate": []any{"Authentication", "Network_Traffic", "Malware", "Web", "Email"},
		"primary_indexes":         []any{"security", "firewall", "ids"},

		"ingestion_threshold_gb":         1.0,
		"missing_data_threshold_minutes": 60.0,
		"compliance_threshold":           85.0,
		"field_population_threshold":     75.0,
		"expected_throughput_mbps":       1000.0,
		"packet_loss_threshold":          1.0,

		"time_range_earliest": "-24h@h",
		"time_range_latest":   "now",

		"required_cim_fields": map[string]any{
			"Authentication":  []any{"user", "src", "dest", "action", "app"},
			"Network_Traffic": []any{"src_ip", "dest_ip", "src_port", "dest_port", "protocol", "action"},
			"Malware":         []any{"signature", "file_name", "file_hash", "dest", "vendor_product"},
			"Web":             []any{"url", "uri_path", "http_method", "status", "src_ip"},
			"Email":           []any{"recipient", "sender", "subject", "action"},
		},

		"enable_acceleration": true,
		"strict_validation":   false,
	}
}

// SampleValue returns a representative value for a parameter type, used to
// fill test contexts for parameters that declare neither a default nor a
// well-known name.
func SampleValue(paramType, name string) any {
	switch paramType {
	case "number":
		return 42.0
	case "boolean":
		return true
	case "array":
		return []any{"item1", "item2", "item3"}
	case "object":
		return map[string]any{"key": "value"}
	default:
		return "sample_" + name
	}
}
