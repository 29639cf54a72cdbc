package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/awantoch/uiscript/driver/fakedriver"
	"github.com/awantoch/uiscript/engine"
	"github.com/awantoch/uiscript/event"
	"github.com/awantoch/uiscript/logger"
	"github.com/awantoch/uiscript/model"
	"github.com/awantoch/uiscript/vision/fakevision"
)

// newRunCmd creates the 'run' subcommand: a YAML-convenience wrapper around
// POST /script for local iteration, executing once and printing the
// Terminal Result — it persists nothing across invocations (spec.md §9
// Non-goals: the interpreter itself keeps no run history).
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Execute a script file once and print its Terminal Result",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			script, err := loadScriptFile(args[0])
			if err != nil {
				logger.Error("failed to load script: %v", err)
				exit(1)
				return
			}

			result := engine.Execute(context.Background(), fakedriver.New(), fakevision.New(), script, event.NopSink{})

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				logger.Error("failed to encode result: %v", err)
				exit(1)
				return
			}
			logger.User("%s", string(out))

			if !result.Success {
				exit(1)
			}
		},
	}
	return cmd
}

// loadScriptFile reads a script from a JSON or YAML file, converting YAML
// to the same JSON shape model.Step already knows how to decode rather
// than teaching Step a second, parallel unmarshaling path.
func loadScriptFile(path string) (model.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Script{}, err
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return model.Script{}, err
	}
	jsonBytes, err := json.Marshal(generic)
	if err != nil {
		return model.Script{}, err
	}

	var script model.Script
	if err := json.Unmarshal(jsonBytes, &script); err != nil {
		return model.Script{}, err
	}
	return script, nil
}
