package model

import "time"

// TrackType classifies what kind of clips a track carries.
type TrackType string

const (
	TrackVideo  TrackType = "video"
	TrackAudio  TrackType = "audio"
	TrackText   TrackType = "text"
	TrackLyrics TrackType = "lyrics"
	TrackEffect TrackType = "effect"
)

// Effect type names carried by effect-track clips.
const (
	EffectBeatZoom   = "beatZoom"
	EffectCutout     = "cutout"
	EffectCartoon    = "cartoon"
	EffectColorGrade = "colorGrade"
)

// Project is the edit decision list: an ordered stack of tracks plus
// project-level lyrics and an optional export work area. Tracks are ordered
// top-to-bottom; the preview draws the top track last (on top) and the
// export compiler overlays bottom-first.
type Project struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	AspectRatio string      `yaml:"aspect_ratio"`
	OutputW     int         `yaml:"output_w"`
	OutputH     int         `yaml:"output_h"`
	Tracks      []*Track    `yaml:"tracks"`
	Lyrics      *LyricsData `yaml:"lyrics,omitempty"`
	WorkArea    *WorkArea   `yaml:"work_area,omitempty"`
	CreatedAt   time.Time   `yaml:"created_at"`
	UpdatedAt   time.Time   `yaml:"updated_at"`
}

// WorkArea restricts export duration to a sub-range of the timeline.
type WorkArea struct {
	Start    float64 `yaml:"start"`
	End      float64 `yaml:"end"`
	IsManual bool    `yaml:"is_manual"`
}

// Duration returns the timeline length: the max clip end across all tracks.
func (p *Project) Duration() float64 {
	var max float64
	for _, t := range p.Tracks {
		for _, c := range t.Clips {
			if c.TimelineEnd > max {
				max = c.TimelineEnd
			}
		}
	}
	return max
}

// ExportSpan returns the time range the export covers: the manual work area
// if one is set, otherwise the whole timeline.
func (p *Project) ExportSpan() (start, end float64) {
	if p.WorkArea != nil && p.WorkArea.IsManual {
		return p.WorkArea.Start, p.WorkArea.End
	}
	return 0, p.Duration()
}

// TrackByID finds a track in the project.
func (p *Project) TrackByID(id string) *Track {
	for _, t := range p.Tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// ClipByID finds a clip and its owning track.
func (p *Project) ClipByID(id string) (*Clip, *Track) {
	for _, t := range p.Tracks {
		for _, c := range t.Clips {
			if c.ID == id {
				return c, t
			}
		}
	}
	return nil, nil
}

// Track is an ordered collection of non-overlapping clips of one kind.
// Effect tracks do not carry media: their clips describe a time range and
// parameter set for an effect applied to the parent video track.
type Track struct {
	ID            string    `yaml:"id"`
	Type          TrackType `yaml:"type"`
	Name          string    `yaml:"name"`
	Muted         bool      `yaml:"muted,omitempty"`
	IsMaster      bool      `yaml:"is_master,omitempty"`
	Clips         []*Clip   `yaml:"clips"`
	EffectType    string    `yaml:"effect_type,omitempty"`
	ParentTrackID string    `yaml:"parent_track_id,omitempty"`
}

// Transform positions a clip on the output canvas. X and Y are pixel
// offsets from center, Rotation is degrees, Opacity and Scale are factors.
type Transform struct {
	Scale    float64 `yaml:"scale"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
	Opacity  float64 `yaml:"opacity"`
}

// DefaultTransform returns the identity transform.
func DefaultTransform() Transform {
	return Transform{Scale: 1, Opacity: 1}
}

// Clip is a time range on a track. Media clips reference an asset via
// AssetID and carry a source range; text, rectangle and lyrics clips carry
// their payload inline. The optional fields double as the dispatch
// predicates of the clip registry.
type Clip struct {
	ID            string  `yaml:"id"`
	AssetID       string  `yaml:"asset_id,omitempty"`
	TrackID       string  `yaml:"track_id"`
	TimelineStart float64 `yaml:"timeline_start"`
	TimelineEnd   float64 `yaml:"timeline_end"`
	SourceStart   float64 `yaml:"source_start,omitempty"`
	SourceEnd     float64 `yaml:"source_end,omitempty"`

	Transform       *Transform `yaml:"transform,omitempty"`
	UseClipAudio    bool       `yaml:"use_clip_audio,omitempty"`
	ClipAudioVolume float64    `yaml:"clip_audio_volume,omitempty"`

	TextContent *string    `yaml:"text_content,omitempty"`
	TextStyle   *TextStyle `yaml:"text_style,omitempty"`

	RectangleStyle *RectangleStyle `yaml:"rectangle_style,omitempty"`

	LyricsContent string       `yaml:"lyrics_content,omitempty"`
	LyricsWords   []LyricWord  `yaml:"lyrics_words,omitempty"`
	LyricsStyle   *LyricsStyle `yaml:"lyrics_style,omitempty"`

	EffectConfig *EffectConfig `yaml:"effect_config,omitempty"`
}

// EffectiveTransform returns the clip transform, or identity if unset.
func (c *Clip) EffectiveTransform() Transform {
	if c.Transform != nil {
		return *c.Transform
	}
	return DefaultTransform()
}

// Overlaps reports whether the clip covers timeline instant t.
func (c *Clip) Overlaps(t float64) bool {
	return t >= c.TimelineStart && t < c.TimelineEnd
}

// OverlapsRange reports whether the clip intersects [start, end).
func (c *Clip) OverlapsRange(start, end float64) bool {
	return c.TimelineStart < end && c.TimelineEnd > start
}

// TextStyle styles a text clip.
type TextStyle struct {
	FontFamily      string  `yaml:"font_family,omitempty"`
	FontSize        float64 `yaml:"font_size"`
	Color           string  `yaml:"color"`
	BackgroundColor string  `yaml:"background_color,omitempty"`
	Bold            bool    `yaml:"bold,omitempty"`
	Italic          bool    `yaml:"italic,omitempty"`
}

// RectangleStyle styles a rectangle clip. Width and Height are in output
// canvas pixels before the clip transform scale is applied.
type RectangleStyle struct {
	Color        string  `yaml:"color"`
	FillOpacity  float64 `yaml:"fill_opacity"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	BorderColor  string  `yaml:"border_color,omitempty"`
	BorderWidth  float64 `yaml:"border_width,omitempty"`
	BorderRadius float64 `yaml:"border_radius,omitempty"`
}

// LyricWord is one aligned word from the lyrics alignment tool.
type LyricWord struct {
	Word  string  `yaml:"word" json:"word"`
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
}

// LyricsStyle styles lyrics rendering, both clip-level and project-level.
type LyricsStyle struct {
	Position       string  `yaml:"position"` // top, center or bottom
	FontFamily     string  `yaml:"font_family,omitempty"`
	FontSize       float64 `yaml:"font_size"`
	Color          string  `yaml:"color"`
	HighlightColor string  `yaml:"highlight_color"`
}

// LyricsData is the project-level lyrics overlay.
type LyricsData struct {
	Words []LyricWord  `yaml:"words"`
	Style *LyricsStyle `yaml:"style,omitempty"`
}

// EffectConfig is carried by clips on effect tracks. Exactly one of the
// per-effect parameter blocks matches EffectType.
type EffectConfig struct {
	EffectType string            `yaml:"effect_type"`
	Enabled    bool              `yaml:"enabled"`
	BeatZoom   *BeatZoomParams   `yaml:"beat_zoom,omitempty"`
	Cutout     *CutoutParams     `yaml:"cutout,omitempty"`
	Cartoon    *CartoonParams    `yaml:"cartoon,omitempty"`
	ColorGrade *ColorGradeParams `yaml:"color_grade,omitempty"`
}

// BeatZoomParams drives the beat-aligned zoom pulse. The zoom factor is
// 1 + Intensity; BeatDivision keeps every Nth beat (1 = every beat).
type BeatZoomParams struct {
	Intensity    float64 `yaml:"intensity"`
	DurationMs   float64 `yaml:"duration_ms"`
	BeatDivision int     `yaml:"beat_division"`
}

// Cutout modes.
const (
	CutoutRemoveBg     = "removeBg"
	CutoutRemovePerson = "removePerson"
)

// CutoutParams drives mask-based subject/background separation.
type CutoutParams struct {
	Mode            string `yaml:"mode"`
	BackgroundColor string `yaml:"background_color,omitempty"` // 0xRRGGBB
}

// CartoonParams drives the stylization chain. LumaDenoise, ChromaDenoise
// and TemporalDenoise map to hqdn3d; EdgeLow and EdgeHigh map to
// edgedetect thresholds; Saturation maps to the final eq stage.
type CartoonParams struct {
	LumaDenoise     float64 `yaml:"luma_denoise"`
	ChromaDenoise   float64 `yaml:"chroma_denoise"`
	TemporalDenoise float64 `yaml:"temporal_denoise"`
	EdgeLow         float64 `yaml:"edge_low"`
	EdgeHigh        float64 `yaml:"edge_high"`
	Saturation      float64 `yaml:"saturation"`
}

// ColorGradeParams is a color correction stack. Neutral values (contrast 1,
// brightness 0, saturation 1, hue 0, shadows 0, highlights 0) compile to a
// passthrough.
type ColorGradeParams struct {
	Contrast   float64 `yaml:"contrast"`
	Brightness float64 `yaml:"brightness"`
	Saturation float64 `yaml:"saturation"`
	Hue        float64 `yaml:"hue"`
	Shadows    float64 `yaml:"shadows"`
	Highlights float64 `yaml:"highlights"`
}

// NeutralColorGrade returns parameters that compile to a passthrough.
func NeutralColorGrade() ColorGradeParams {
	return ColorGradeParams{Contrast: 1, Saturation: 1}
}

// IsNeutral reports whether every stage of the grade is a no-op.
func (p ColorGradeParams) IsNeutral() bool {
	return p.Contrast == 1 && p.Brightness == 0 && p.Saturation == 1 &&
		p.Hue == 0 && p.Shadows == 0 && p.Highlights == 0
}

// AssetType classifies imported media.
type AssetType string

const (
	AssetVideo AssetType = "video"
	AssetAudio AssetType = "audio"
	AssetImage AssetType = "image"
)

// Asset is an imported media file plus the derived artifacts produced by
// the external tool pipeline (proxy, extracted audio, waveform, beats,
// person mask). Paths are opaque tokens; assets outlive projects.
type Asset struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	Type         AssetType `yaml:"type"`
	OriginalPath string    `yaml:"original_path"`
	ProxyPath    string    `yaml:"proxy_path,omitempty"`
	AudioPath    string    `yaml:"audio_path,omitempty"`
	WaveformPath string    `yaml:"waveform_path,omitempty"`
	BeatsPath    string    `yaml:"beats_path,omitempty"`
	MaskPath     string    `yaml:"mask_path,omitempty"`
	Duration     float64   `yaml:"duration"`
	Width        int       `yaml:"width,omitempty"`
	Height       int       `yaml:"height,omitempty"`
	FPS          float64   `yaml:"fps,omitempty"`
}

// RenderPath returns the path used for rendering: the proxy when present,
// otherwise the original.
func (a *Asset) RenderPath() string {
	if a.ProxyPath != "" {
		return a.ProxyPath
	}
	return a.OriginalPath
}

// BeatsData is the beat detection tool's output.
type BeatsData struct {
	Tempo float64   `yaml:"tempo" json:"tempo"`
	Beats []float64 `yaml:"beats" json:"beats"`
}
