// cmd/tools/registry-tool/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"lead-scoring-workers/internal/common/validation"
	"lead-scoring-workers/pkg/registry"
)

var registryPath string

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	checkCmd := flag.NewFlagSet("check-vars", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{exportCmd, validateCmd, checkCmd, updateCmd} {
		fs.StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")
	}

	taskType := checkCmd.String("taskType", "", "Task type whose input schema to check against")
	varsFile := checkCmd.String("vars", "", "JSON file holding job variables")

	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (version, timeout, retries, description)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "export":
		_ = exportCmd.Parse(os.Args[2:])
		reg := registry.Default()
		reg.LastUpdated = time.Now().Format(time.RFC3339)
		err = saveRegistry(reg, registryPath)
		if err == nil {
			fmt.Printf("Wrote %d activities to %s\n", len(reg.Activities), registryPath)
		}

	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		err = validateRegistry()

	case "check-vars":
		_ = checkCmd.Parse(os.Args[2:])
		if *taskType == "" || *varsFile == "" {
			fmt.Println("Error: taskType and vars are required for check-vars.")
			checkCmd.Usage()
			os.Exit(1)
		}
		err = checkVariables(*taskType, *varsFile)

	case "update":
		_ = updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		err = updateActivity(*idUpdate, *field, *value)

	default:
		help()
		return
	}

	if err != nil {
		fmt.Printf("%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func validateRegistry() error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

func checkVariables(taskType, path string) error {
	reg, err := registry.LoadOrDefault(registryPathIfExists())
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	activity, ok := reg.Find(taskType)
	if !ok {
		return fmt.Errorf("task type %s not registered", taskType)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validation.ValidateJSONSchema(activity.InputSchema, doc); err != nil {
		return err
	}
	fmt.Printf("Variables in %s match the %s input schema.\n", path, taskType)
	return nil
}

func updateActivity(id, field, value string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var activity *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			activity = &reg.Activities[i]
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "version":
		activity.Version = value
	case "description":
		activity.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.LastUpdated = time.Now().Format(time.RFC3339)
	if err := saveRegistry(reg, registryPath); err != nil {
		return err
	}
	fmt.Printf("Updated activity %s, field %s to %s\n", id, field, value)
	return nil
}

// registryPathIfExists falls back to the built-in registry when no file is present.
func registryPathIfExists() string {
	if _, err := os.Stat(registryPath); err != nil {
		return ""
	}
	return registryPath
}

func saveRegistry(reg *registry.ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-tool <command> [flags]

Commands:
  export      Write the built-in lead scoring registry to a file
  validate    Validate a registry file
  check-vars  Validate a job variables file against an activity input schema
  update      Update an activity field in a registry file
  help        Show this help message

Examples:
  registry-tool export -path configs/activity-registry.json
  registry-tool validate -path configs/activity-registry.json
  registry-tool check-vars -taskType score-lead-batch -vars batch.json
  registry-tool update -id score-lead-batch -field timeout -value 15m`)
}
