package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a config.toml template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Config written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.genai.api_key and credentials.lastfm.api_key (or GENAI_APIKEY / LASTFM_API_KEY)\n")
	r.writePlain("2. Run 'mixtape setup youtube --curl-file request.txt' to authorize YouTube Music\n")
	r.writePlain("3. Optionally run 'mixtape spotify auth' after setting the Spotify client credentials\n")
	return nil
}

// SetupYouTube configures YouTube Music authentication from browser headers.
//
// Accepts a cURL command and writes the proxy auth file.
func (r *Runner) SetupYouTube(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	outputPath := cmd.String("output")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var headers *shared.BrowserHeaders
	var err error

	if curlFile != "" {
		if headers, err = shared.ParseCurlFile(curlFile); err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		if headers, err = shared.ParseCurlCommand(curlCmd); err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	headersRaw := headers.HeadersRaw()
	r.logger.Debug("generated headers_raw", "length", len(headersRaw))

	setup, err := r.api.SetupBrowser(ctx, headersRaw)
	if err != nil {
		return fmt.Errorf("setup request failed: %w", err)
	}

	if !setup.Success {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, setup.Message)
	}

	if outputPath == "" {
		outputPath = r.config.Credentials.YouTube.AuthFile
	}
	if outputPath == "" {
		return fmt.Errorf("%w: --output or credentials.youtube.auth_file", shared.ErrMissingArgument)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	authJSON, err := json.MarshalIndent(setup.AuthContent, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal auth content: %w", err)
	}

	if err := os.WriteFile(outputPath, authJSON, 0600); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}

	r.logger.Info("auth file saved", "path", outputPath)

	r.writePlain("✓ YouTube Music authentication configured successfully\n")
	r.writePlain("Auth file saved to: %s\n", outputPath)
	if outputPath != r.config.Credentials.YouTube.AuthFile {
		r.writePlainln("Next steps:")
		r.writePlain("Set credentials.youtube.auth_file = \"%s\" in config.toml (or YTMUSIC_AUTH_FILE)\n", outputPath)
	}
	return nil
}
