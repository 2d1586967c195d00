// Package config provides centralized configuration management for the
// connectivity ETL. It loads settings from multiple sources, validates
// them, and resolves every file location the pipeline touches.
//
// # Configuration Sources
//
// Configuration is assembled in order of precedence (later wins):
//
//	1. Built-in defaults (Default)
//	2. An optional YAML config file
//	3. CONEX_* environment variables (a .env file is honored)
//	4. Command-line flag overrides applied by the entry point
//
// # Environment Variables
//
// All environment variables follow the pattern CONEX_* for namespacing:
//
//	CONEX_SOURCES_COVERAGE_FILE=Cobertura_movil.csv
//	CONEX_SOURCES_ACCESS_FILE=Accesos_por_tecnologia.csv
//	CONEX_OUTPUT_DIR=output
//	CONEX_LOGGING_LEVEL=debug
//	CONEX_OBSERVABILITY_TRACING_ENABLED=true
//
// Validation runs once the layers are assembled, so a value required by
// Validate may arrive from any source.
package config
