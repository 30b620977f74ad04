package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/2mushr00m/dialLog/app"
	"github.com/2mushr00m/dialLog/transcription"
	"github.com/2mushr00m/dialLog/validation"
)

type transcribeFlags struct {
	language string
	engine   string
	noCache  bool
	json     bool
}

var engineNames = []string{app.EngineRouter, transcription.EngineClova, transcription.EngineGoogle, transcription.EngineStatic}

func (f *transcribeFlags) validate() error {
	_, langErr := language.Parse(f.language)
	return validation.New().
		OneOf("engine", f.engine, engineNames).
		Custom(f.language == "" || langErr == nil, "language", "must be a BCP-47 tag such as ko-KR").
		Validate()
}

// fileResult is one line of --json output.
type fileResult struct {
	Path   string                `json:"path"`
	Result *transcription.Result `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

func newTranscribeCommand(open openFunc) *cobra.Command {
	flags := &transcribeFlags{}
	cmd := &cobra.Command{
		Use:   "transcribe <file>...",
		Short: "Transcribe one or more recordings.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.WithoutCancel(ctx)) }()
			return runTranscribe(ctx, a, flags, args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&flags.language, "language", "", "language code, skips detection (e.g. ko-KR)")
	cmd.Flags().StringVar(&flags.engine, "engine", "", "engine: router, clova, google or static")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "bypass the result cache")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print one JSON object per file")
	return cmd
}

func runTranscribe(ctx context.Context, a *app.App, flags *transcribeFlags, paths []string, w io.Writer) error {
	session, err := a.Session(app.TranscriberOptions{Engine: flags.engine, NoCache: flags.noCache})
	if err != nil {
		return err
	}
	defer session.Wait()

	var failed int
	for _, path := range paths {
		audio, err := a.Describe(path)
		if err == nil {
			job := session.SubmitLanguage(ctx, audio, flags.language, nil)
			<-job.Done()
			var res *transcription.Result
			res, err = job.Result()
			if err == nil {
				printResult(w, flags.json, path, res)
				continue
			}
		}
		failed++
		printError(w, flags.json, path, err)
		if ctx.Err() != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func printResult(w io.Writer, asJSON bool, path string, res *transcription.Result) {
	if asJSON {
		writeJSON(w, fileResult{Path: path, Result: res})
		return
	}
	fmt.Fprintf(w, "== %s", path)
	if md := res.Metadata; md != nil {
		fmt.Fprintf(w, " (%s, %s)", md.Route, md.FinalLanguageCode)
	}
	fmt.Fprintln(w)
	for _, s := range res.Segments {
		speaker := ""
		if s.Speaker != "" {
			speaker = s.Speaker + ": "
		}
		fmt.Fprintf(w, "[%s - %s] %s%s\n", clock(s.StartMs), clock(s.EndMs), speaker, s.Text)
	}
}

func printError(w io.Writer, asJSON bool, path string, err error) {
	if asJSON {
		writeJSON(w, fileResult{Path: path, Error: err.Error()})
		return
	}
	fmt.Fprintf(w, "== %s\nerror: %v\n", path, err)
}

// clock formats milliseconds as mm:ss.mmm.
func clock(ms int64) string {
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}

// writeJSON keeps route arrows ("->") unescaped.
func writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
