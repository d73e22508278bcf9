// Command livox-convert converts one Livox CustomMsg JSON document into a
// foxglove.PointCloud, written as JSON, protobuf or PCD.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/livox-pointcloud/internal/config"
	"github.com/banshee-data/livox-pointcloud/internal/convert"
	"github.com/banshee-data/livox-pointcloud/internal/foxglove"
	"github.com/banshee-data/livox-pointcloud/internal/fsutil"
	"github.com/banshee-data/livox-pointcloud/internal/livox"
	"github.com/banshee-data/livox-pointcloud/internal/monitoring"
	"github.com/banshee-data/livox-pointcloud/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a JSON config file")
	inPath      = flag.String("in", "-", "Input CustomMsg JSON file (- for stdin)")
	outPath     = flag.String("out", "-", "Output file (- for stdout)")
	format      = flag.String("format", "", "Output format: json, protobuf or pcd (overrides config)")
	summary     = flag.Bool("summary", false, "Log a summary of the converted cloud")
	list        = flag.Bool("list", false, "List registered converters and exit")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// options is the resolved run configuration after flags override config.
type options struct {
	fs            fsutil.FileSystem
	in, out       string
	format        string
	maxInputBytes int64
	pretty        bool
	summary       bool
}

func resolveOptions(cfg *config.ConvertConfig, visited map[string]bool) (options, error) {
	if visited["format"] {
		cfg.OutputFormat = format
	}
	if visited["summary"] {
		cfg.Summary = summary
	}
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}
	return options{
		fs:            fsutil.OSFileSystem{},
		in:            *inPath,
		out:           *outPath,
		format:        cfg.GetOutputFormat(),
		maxInputBytes: cfg.GetMaxInputBytes(),
		pretty:        cfg.GetPrettyJSON(),
		summary:       cfg.GetSummary(),
	}, nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("livox-convert", version.String())
		return
	}

	registry := convert.NewRegistry()
	if err := convert.Activate(registry); err != nil {
		log.Fatalf("failed to register converters: %v", err)
	}

	if *list {
		for _, reg := range registry.Registrations() {
			fmt.Printf("%s -> %s\n", reg.FromSchemaName, reg.ToSchemaName)
		}
		return
	}

	cfg := config.EmptyConvertConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConvertConfig(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	visited := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { visited[f.Name] = true })
	opts, err := resolveOptions(cfg, visited)
	if err != nil {
		log.Fatalf("invalid options: %v", err)
	}

	if err := run(registry, opts); err != nil {
		log.Fatalf("conversion failed: %v", err)
	}
}

func run(registry *convert.Registry, opts options) error {
	in, closeIn, err := openInput(opts.fs, opts.in)
	if err != nil {
		return err
	}
	defer closeIn()

	raw, err := readInput(in, opts.maxInputBytes)
	if err != nil {
		return err
	}
	msg, err := livox.DecodeCustomMsg(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	monitoring.Logf("decoded %s frame=%q points=%d", livox.SchemaName, msg.Header.FrameID, len(msg.Points))

	out, err := registry.Convert(livox.SchemaName, foxglove.SchemaName, msg)
	if err != nil {
		return err
	}
	cloud, ok := out.(foxglove.PointCloud)
	if !ok {
		return fmt.Errorf("converter returned %T, want foxglove.PointCloud", out)
	}
	if opts.summary {
		monitoring.Logf("%s", foxglove.Summarize(cloud))
	}

	if opts.out == "-" {
		return writeCloud(os.Stdout, cloud, opts)
	}
	f, err := opts.fs.Create(opts.out)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := writeCloud(f, cloud, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	monitoring.Logf("wrote %s to %s", opts.format, opts.out)
	return nil
}

// errInputTooLarge is returned when the input is longer than max_input_bytes.
var errInputTooLarge = errors.New("input exceeds max_input_bytes")

// readInput reads all of r, failing rather than truncating when r holds more
// than limit bytes.
func readInput(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%w (%d)", errInputTooLarge, limit)
	}
	return b, nil
}

func openInput(fsys fsutil.FileSystem, path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func writeCloud(w io.Writer, cloud foxglove.PointCloud, opts options) error {
	switch opts.format {
	case config.FormatProtobuf:
		b, err := cloud.MarshalProto()
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case config.FormatPCD:
		return foxglove.WritePCD(w, cloud)
	default:
		enc := json.NewEncoder(w)
		if opts.pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(cloud)
	}
}
