package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"rigroot/internal/config"
	"rigroot/internal/diagnostics"
	"rigroot/internal/dirsettings"
	"rigroot/internal/journal"
	"rigroot/internal/logging"
	"rigroot/internal/motion"
	"rigroot/internal/outputpath"
	"rigroot/internal/preflight"
	"rigroot/internal/rig"
	"rigroot/internal/scene"
	"rigroot/internal/services"
)

// Event tags, in rough pipeline order.
const (
	TagSettings    = "settings"
	TagImport      = "import"
	TagGuard       = "guard"
	TagClassify    = "classify"
	TagOutput      = "resolve_output"
	TagRootBone    = "root_bone"
	TagRestPose    = "rest_pose"
	TagUVTrim      = "uv_trim"
	TagBake        = "bake"
	TagCommitKeys  = "commit_keys"
	TagDiagnostics = "diagnostics"
	TagPreflight   = "preflight"
	TagExport      = "export"
	TagTextures    = "textures"
	TagDone        = "done"
)

// lockFileName is the file lock that serializes conversion runs.
const lockFileName = "rigroot.lock"

// Codec moves assets between interchange files and memory scenes.
type Codec interface {
	Import(ctx context.Context, sourcePath string) (*scene.Memory, error)
	Export(ctx context.Context, graph *scene.Memory, destPath string) error
}

// Pipeline builds conversion runs. The journal store is optional; without it
// runs are simply not recorded.
type Pipeline struct {
	cfg     *config.Config
	codec   Codec
	logger  *slog.Logger
	journal *journal.Store
}

// New constructs a pipeline.
func New(cfg *config.Config, codec Codec, logger *slog.Logger, store *journal.Store) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{cfg: cfg, codec: codec, logger: logger, journal: store}
}

// Request describes one asset to convert. Empty fields fall back to the
// per-directory settings, then the configuration.
type Request struct {
	SourcePath     string
	OutputDir      string
	OutputFilename string
}

// Run starts a conversion and returns its event stream. The work happens
// lazily as the stream is consumed.
func (p *Pipeline) Run(ctx context.Context, req Request) *Stream {
	s := &Stream{}
	r := &run{
		p:            p,
		ctx:          ctx,
		stream:       s,
		req:          req,
		logger:       p.logger,
		rootBoneName: p.cfg.Conversion.RootBoneName,
		sampleRate:   p.cfg.Conversion.AnimationSampleRate,
	}
	s.push(
		r.acquireLock,
		r.beginJournal,
		r.loadSettings,
		r.importAsset,
		r.guard,
		r.classify,
		r.resolveOutput,
		r.injectRoot,
		r.applyRestPose,
		r.branch,
	)
	return s
}

// run carries the mutable state of one conversion.
type run struct {
	p      *Pipeline
	ctx    context.Context
	stream *Stream
	req    Request
	logger *slog.Logger

	settings       *dirsettings.Settings
	graph          *scene.Memory
	kind           rig.AssetKind
	rootBoneName   string
	sampleRate     float64
	outputDir      string
	outputFilename string
	outputPath     string
	skipExport     bool
	baked          *motion.Result
	runID          string
	lock           *flock.Flock
}

func (r *run) emit(tag, message string) {
	r.logger.Info(message, logging.String(logging.FieldEventType, tag))
	r.stream.emit(Event{Tag: tag, Message: message})
}

func (r *run) warn(tag, message string) {
	r.logger.Warn(message, logging.String(logging.FieldEventType, tag))
	r.stream.emit(Event{Tag: tag, Message: message, Warning: true})
}

func (r *run) acquireLock() error {
	if err := os.MkdirAll(r.p.cfg.Paths.DataDir, 0o755); err != nil {
		return services.Wrap(services.ErrValidation, "lock", "mkdir",
			fmt.Sprintf("create data directory %s", r.p.cfg.Paths.DataDir), err)
	}
	r.lock = flock.New(filepath.Join(r.p.cfg.Paths.DataDir, lockFileName))
	locked, err := r.lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrValidation, "lock", "acquire", "conversion lock", err)
	}
	if !locked {
		return services.Wrap(services.ErrValidation, "lock", "acquire",
			"another conversion is already running", nil)
	}
	r.stream.onFinish(func(error) { _ = r.lock.Unlock() })
	return nil
}

func (r *run) beginJournal() error {
	if r.p.journal == nil {
		return nil
	}
	id, err := r.p.journal.Begin(r.ctx, r.req.SourcePath)
	if err != nil {
		r.warn(TagSettings, fmt.Sprintf("journal unavailable: %v", err))
		return nil
	}
	r.runID = id
	r.ctx = services.WithRunID(r.ctx, id)
	r.logger = logging.WithContext(r.ctx, r.p.logger)
	r.stream.onFinish(func(runErr error) {
		record := &journal.Run{
			Status:     journal.StatusCompleted,
			AssetKind:  string(r.kind),
			OutputPath: r.outputPath,
		}
		if r.graph != nil {
			record.AssetName = r.graph.Name()
		}
		if runErr != nil {
			record.Status = journal.StatusFailed
			record.ErrorMessage = services.Details(runErr)
		}
		if err := r.p.journal.Finish(context.Background(), r.runID, record); err != nil {
			r.logger.Warn("journal record failed", logging.Error(err))
		}
	})
	return nil
}

func (r *run) loadSettings() error {
	sourceDir := filepath.Dir(r.req.SourcePath)
	settings, err := dirsettings.Load(sourceDir)
	if err != nil {
		r.warn(TagSettings, fmt.Sprintf("directory settings unreadable: %v", err))
		settings = &dirsettings.Settings{}
	}
	r.settings = settings

	r.outputFilename = firstNonEmpty(
		r.req.OutputFilename,
		settings.Get(dirsettings.KeyOutputFilename),
		strings.TrimSuffix(filepath.Base(r.req.SourcePath), filepath.Ext(r.req.SourcePath)),
	)
	r.outputDir = firstNonEmpty(
		r.req.OutputDir,
		settings.Get(dirsettings.KeyOutputDir),
		r.p.cfg.Paths.OutputDir,
		sourceDir,
	)
	if name := settings.Get(dirsettings.KeyRootBoneName); name != "" {
		r.rootBoneName = name
	}
	if raw := settings.Get(dirsettings.KeySampleRate); raw != "" {
		if rate, err := strconv.ParseFloat(raw, 64); err == nil && rate > 0 {
			r.sampleRate = rate
		} else {
			r.warn(TagSettings, fmt.Sprintf("ignoring stored sample rate %q", raw))
		}
	}
	if len(settings.Properties) > 0 {
		r.emit(TagSettings, fmt.Sprintf("applied %d stored settings from %s", len(settings.Properties), sourceDir))
	}
	return nil
}

func (r *run) importAsset() error {
	graph, err := r.p.codec.Import(r.ctx, r.req.SourcePath)
	if err != nil {
		return err
	}
	// Evaluation state from the converter's run is meaningless here.
	graph.ClearAnimationCaches()
	r.graph = graph
	r.ctx = services.WithAsset(r.ctx, graph.Name())
	r.logger = logging.WithContext(r.ctx, r.p.logger)
	r.emit(TagImport, fmt.Sprintf("imported %s (%d bones)", r.req.SourcePath, graph.Hierarchy().Len()))
	return nil
}

func (r *run) guard() error {
	if err := rig.Guard(r.graph.Hierarchy(), r.rootBoneName); err != nil {
		return err
	}
	r.emit(TagGuard, "hierarchy has a single root and no prior conversion")
	return nil
}

func (r *run) classify() error {
	r.kind = rig.Classify(r.graph.MeshChildren())
	r.emit(TagClassify, fmt.Sprintf("asset classified as %s", r.kind))
	return nil
}

func (r *run) resolveOutput() error {
	path, err := outputpath.Resolve(r.outputDir, r.outputFilename, r.kind, r.p.cfg.Conversion.AppendAssetTypeDir)
	if err != nil {
		r.skipExport = true
		r.warn(TagOutput, fmt.Sprintf("export will be skipped: %s", services.Details(err)))
		return nil
	}
	r.outputPath = path
	r.emit(TagOutput, fmt.Sprintf("output resolved to %s", path))
	return nil
}

func (r *run) injectRoot() error {
	hip := r.p.cfg.Conversion.HipBoneName
	if err := rig.InjectRootBone(r.graph, hip, r.rootBoneName, r.graph.ObjectScale()); err != nil {
		return err
	}
	r.emit(TagRootBone, fmt.Sprintf("injected %q above %q", r.rootBoneName, hip))
	return nil
}

func (r *run) applyRestPose() error {
	if err := r.graph.ApplyRotationToRest(); err != nil {
		return services.Wrap(services.ErrValidation, "rest_pose", "apply", "", err)
	}
	r.emit(TagRestPose, "object rotation folded into rest pose")
	return nil
}

// branch queues the kind-specific stages followed by the common tail.
func (r *run) branch() error {
	if r.kind.IsActor() {
		r.stream.push(r.trimUVLayers)
	} else {
		r.stream.push(r.bake, r.commitKeys, r.dumpDiagnostics)
	}
	r.stream.push(r.preflight, r.export, r.extractTextures, r.persistSettings, r.done)
	return nil
}

func (r *run) trimUVLayers() error {
	keep := r.p.cfg.Conversion.UVMapsToKeep
	if keep < 0 {
		return nil
	}
	removed := 0
	for _, mesh := range r.graph.MeshChildren() {
		layers, err := r.graph.UVLayers(mesh)
		if err != nil {
			return err
		}
		for _, layer := range layers[min(keep, len(layers)):] {
			if err := r.graph.RemoveUVLayer(mesh, layer); err != nil {
				return err
			}
			removed++
		}
	}
	r.emit(TagUVTrim, fmt.Sprintf("removed %d UV layers beyond the first %d", removed, keep))
	return nil
}

func (r *run) bake() error {
	baked, err := motion.Bake(r.graph, motion.Options{
		HipBone:         r.p.cfg.Conversion.HipBoneName,
		SampleRate:      r.sampleRate,
		SmoothCutoffHz:  r.p.cfg.Conversion.SmoothCutoffHz,
		GroundTolerance: r.p.cfg.Conversion.GroundTolerance,
	})
	if err != nil {
		return err
	}
	r.baked = baked
	r.emit(TagBake, fmt.Sprintf("baked %d frames at %g fps", baked.Root.Len(), r.sampleRate))
	return nil
}

func (r *run) commitKeys() error {
	err := r.graph.CommitBakedTracks(r.rootBoneName, r.p.cfg.Conversion.HipBoneName,
		&r.baked.Root, &r.baked.Hip)
	if err != nil {
		return err
	}
	r.emit(TagCommitKeys, "root and hip keyframes committed")
	return nil
}

func (r *run) dumpDiagnostics() error {
	if !r.p.cfg.Conversion.DumpDiagnostics {
		return nil
	}
	if r.skipExport {
		r.warn(TagDiagnostics, "diagnostics skipped: no output location")
		return nil
	}
	path := strings.TrimSuffix(r.outputPath, outputpath.Extension) + "_rootmotion.csv"
	if err := diagnostics.Write(path, r.baked.Frames); err != nil {
		r.warn(TagDiagnostics, fmt.Sprintf("diagnostics not written: %s", services.Details(err)))
		return nil
	}
	r.emit(TagDiagnostics, fmt.Sprintf("diagnostics written to %s", path))
	return nil
}

func (r *run) preflight() error {
	if r.skipExport {
		return nil
	}
	failed := preflight.Failed(preflight.RunAll(r.p.cfg, filepath.Dir(r.outputPath)))
	if len(failed) == 0 {
		r.emit(TagPreflight, "preflight checks passed")
		return nil
	}
	details := make([]string, len(failed))
	for i, result := range failed {
		details[i] = fmt.Sprintf("%s: %s", result.Name, result.Detail)
	}
	// Degrades like a failed output directory: the converted scene stays
	// intact, only the export is skipped.
	r.skipExport = true
	r.warn(TagPreflight, "preflight failed, skipping export: "+strings.Join(details, "; "))
	return nil
}

func (r *run) export() error {
	if r.skipExport {
		r.warn(TagExport, "export skipped")
		return nil
	}
	if err := r.p.codec.Export(r.ctx, r.graph, r.outputPath); err != nil {
		return err
	}
	r.emit(TagExport, fmt.Sprintf("exported %s", r.outputPath))
	return nil
}

func (r *run) extractTextures() error {
	if !r.p.cfg.Conversion.ExtractTextures || r.skipExport || !r.kind.IsActor() {
		return nil
	}
	images := r.graph.Images()
	if len(images) == 0 {
		return nil
	}
	textureDir := filepath.Join(filepath.Dir(r.outputPath), "textures")
	extracted := 0
	for _, name := range images {
		if _, err := r.graph.ExtractImage(name, textureDir); err != nil {
			r.warn(TagTextures, fmt.Sprintf("texture %s not extracted: %s", name, services.Details(err)))
			continue
		}
		extracted++
	}
	r.emit(TagTextures, fmt.Sprintf("extracted %d of %d textures to %s", extracted, len(images), textureDir))
	return nil
}

func (r *run) persistSettings() error {
	if r.skipExport {
		return nil
	}
	r.settings.Set(dirsettings.KeyOutputFilename, filepath.Base(r.outputPath))
	r.settings.Set(dirsettings.KeyOutputDir, r.outputDir)
	r.settings.Set(dirsettings.KeyRootBoneName, r.rootBoneName)
	r.settings.Set(dirsettings.KeySampleRate, strconv.FormatFloat(r.sampleRate, 'g', -1, 64))
	if err := dirsettings.Store(filepath.Dir(r.req.SourcePath), r.settings); err != nil {
		r.warn(TagSettings, fmt.Sprintf("directory settings not saved: %v", err))
	}
	return nil
}

func (r *run) done() error {
	if r.skipExport {
		r.emit(TagDone, "conversion finished without an export")
		return nil
	}
	r.emit(TagDone, fmt.Sprintf("conversion finished: %s", r.outputPath))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
