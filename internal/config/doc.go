// Package config loads the vacancy report configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML file: $VACANCY_CONFIG_FILE, config.yaml or configs/config.yaml
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern VACANCY_<SECTION>_<FIELD>:
//
//	VACANCY_LOGGING_LEVEL=debug
//	VACANCY_REPORT_FORMAT=all
//	VACANCY_REPORT_TOP_CITIES=10
//	VACANCY_REPORT_RATES=USD:60.66,EUR:59.90
//	VACANCY_TELEMETRY_TRACE_EXPORTER=stdout
//	VACANCY_TELEMETRY_METRICS_FILE=metrics.prom
//
// # Validation
//
// Load validates the merged configuration with go-playground/validator
// struct tags and returns a CONFIG AppError naming every failing field.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
