// Package container provides dependency injection for the txcat application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"vtran/txn-categorizer/internal/abbreviation"
	"vtran/txn-categorizer/internal/categorizer"
	"vtran/txn-categorizer/internal/config"
	"vtran/txn-categorizer/internal/llm"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/pipeline"
	"vtran/txn-categorizer/internal/prompt"
	"vtran/txn-categorizer/internal/spreadsheet"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	llmClient   llm.Client
	prompts     *prompt.Builder
	dictionary  *abbreviation.Map
	expander    *abbreviation.Expander
	categorizer *categorizer.Categorizer
	pipeline    *pipeline.Pipeline
}

// NewContainer creates and wires all application dependencies, building
// the LLM client selected by cfg.LLM.Provider.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	client, err := llm.New(context.Background(), cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	return build(cfg, client, logger)
}

// NewContainerWithClient wires dependencies around an existing LLM client.
func NewContainerWithClient(cfg *config.Config, client llm.Client, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("LLM client cannot be nil")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}
	return build(cfg, client, logger)
}

func build(cfg *config.Config, client llm.Client, logger logging.Logger) (*Container, error) {
	spreadsheet.SetLogger(logger)

	prompts, err := prompt.NewBuilder(cfg.Prompt.Language, cfg.Categorization.FallbackCategory)
	if err != nil {
		return nil, err
	}

	dict, err := abbreviation.LoadFile(cfg.Abbreviations, logger)
	if err != nil {
		return nil, err
	}

	expander := abbreviation.NewExpander(dict, abbreviation.NewLLMResolver(client, prompts), logger)
	cat := categorizer.NewCategorizer(client, prompts, cfg.LLM.BatchSize, cfg.Categorization.FallbackCategory, logger)
	pipe := pipeline.New(cfg.Input, expander, cat, logger)

	logger.Info("Container initialized successfully",
		logging.F(logging.FieldModel, client.Name()),
		logging.F("abbreviations", dict.Len()),
		logging.F("language", prompts.Language()),
		logging.F("batch_size", cfg.LLM.BatchSize))

	return &Container{
		logger:      logger,
		config:      cfg,
		llmClient:   client,
		prompts:     prompts,
		dictionary:  dict,
		expander:    expander,
		categorizer: cat,
		pipeline:    pipe,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLLMClient returns the language model client.
func (c *Container) GetLLMClient() llm.Client {
	return c.llmClient
}

// GetPrompts returns the prompt builder.
func (c *Container) GetPrompts() *prompt.Builder {
	return c.prompts
}

// GetDictionary returns the loaded abbreviation map, possibly empty.
func (c *Container) GetDictionary() *abbreviation.Map {
	return c.dictionary
}

// GetExpander returns the abbreviation expander.
func (c *Container) GetExpander() *abbreviation.Expander {
	return c.expander
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetPipeline returns the end-to-end categorization pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Close releases the LLM client.
func (c *Container) Close() error {
	if err := llm.Close(c.llmClient); err != nil {
		return fmt.Errorf("closing LLM client: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
