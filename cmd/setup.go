package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/ymx/internal/services"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPathOrDefault()
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Next: run 'ymx setup yandex' and 'ymx setup youtube'\n")
	return nil
}

// SetupDatabase initializes the run history database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	if _, err := r.runRepository(); err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)
	return nil
}

// SetupYouTube configures YouTube Music authentication from browser headers.
//
// The proxy turns the headers into an auth file at the output path.
func (r *Runner) SetupYouTube(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireYouTube(); err != nil {
		return err
	}

	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	outputPath := cmd.String("output")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	r.logger.Info("parsing cURL command for YouTube Music headers")

	var (
		headers *shared.BrowserHeaders
		err     error
	)
	if curlFile != "" {
		headers, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		headers, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	if !headers.Authenticated() {
		r.logger.Warn("no cookie found in cURL command; the proxy will likely reject it")
	}

	if outputPath == "" {
		outputPath = r.config.Credentials.YouTube.AuthFile
	}
	if outputPath == "" {
		outputPath = "browser.json"
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	headersRaw := headers.ToHeadersRaw()
	r.logger.Debug("generated headers_raw", "length", len(headersRaw))
	r.logger.Info("calling YouTube Music proxy setup endpoint")

	if err := r.youtube.SetupAuth(ctx, headersRaw, outputPath); err != nil {
		return fmt.Errorf("setup request failed: %w", err)
	}

	r.logger.Info("auth file saved", "path", outputPath)
	r.writePlain("✓ YouTube Music authentication configured successfully\n")
	r.writePlain("Auth file saved to: %s\n", outputPath)

	if outputPath != r.config.Credentials.YouTube.AuthFile {
		r.config.Credentials.YouTube.AuthFile = outputPath
		if err := r.saveConfig(); err != nil {
			return err
		}
	}

	r.writePlainln("Next steps:")
	r.writePlain("Run 'ymx ytmusic search \"your song\"' to test authentication\n")
	return nil
}

// SetupYandex stores a Yandex OAuth token, or opens the page that issues one.
func (r *Runner) SetupYandex(ctx context.Context, cmd *cli.Command) error {
	if token := cmd.String("token"); token != "" {
		r.config.Credentials.Yandex.Token = token
		if err := r.saveConfig(); err != nil {
			return err
		}
		r.writePlain("✓ Yandex Music token saved to %s\n", r.configPathOrDefault())
		return nil
	}

	authURL := services.YandexAuthURL(cmd.String("client-id"))
	r.writePlain("Log in to Yandex and copy access_token from the address you are redirected to:\n\n%s\n\n", authURL)
	r.writePlain("Then run: ymx setup yandex --token <access_token>\n")

	if cmd.Bool("no-browser") {
		return nil
	}
	if err := r.openBrowser(authURL); err != nil {
		r.logger.Warn("could not open browser", "error", err)
	}
	return nil
}

func (r *Runner) configPathOrDefault() string {
	if r.configPath == "" {
		return "config.toml"
	}
	return r.configPath
}

// saveConfig persists the in-memory configuration to the --config path.
func (r *Runner) saveConfig() error {
	path := r.configPathOrDefault()
	if err := shared.SaveConfig(path, r.config); err != nil {
		return err
	}
	r.logger.Info("config updated", "path", path)
	return nil
}
