package model

// Clone deep-copies the project. Undo history relies on full snapshots, so
// no field may alias the original.
func (p *Project) Clone() *Project {
	cp := *p
	cp.Tracks = make([]*Track, len(p.Tracks))
	for i, t := range p.Tracks {
		cp.Tracks[i] = t.Clone()
	}
	if p.Lyrics != nil {
		l := LyricsData{Words: append([]LyricWord(nil), p.Lyrics.Words...)}
		if p.Lyrics.Style != nil {
			s := *p.Lyrics.Style
			l.Style = &s
		}
		cp.Lyrics = &l
	}
	if p.WorkArea != nil {
		w := *p.WorkArea
		cp.WorkArea = &w
	}
	return &cp
}

// Clone deep-copies the track and its clips.
func (t *Track) Clone() *Track {
	ct := *t
	ct.Clips = make([]*Clip, len(t.Clips))
	for i, c := range t.Clips {
		ct.Clips[i] = c.Clone()
	}
	return &ct
}

// Clone deep-copies the clip.
func (c *Clip) Clone() *Clip {
	cc := *c
	if c.Transform != nil {
		tr := *c.Transform
		cc.Transform = &tr
	}
	if c.TextContent != nil {
		s := *c.TextContent
		cc.TextContent = &s
	}
	if c.TextStyle != nil {
		ts := *c.TextStyle
		cc.TextStyle = &ts
	}
	if c.RectangleStyle != nil {
		rs := *c.RectangleStyle
		cc.RectangleStyle = &rs
	}
	cc.LyricsWords = append([]LyricWord(nil), c.LyricsWords...)
	if c.LyricsStyle != nil {
		ls := *c.LyricsStyle
		cc.LyricsStyle = &ls
	}
	if c.EffectConfig != nil {
		cc.EffectConfig = c.EffectConfig.Clone()
	}
	return &cc
}

// Clone deep-copies the effect config.
func (e *EffectConfig) Clone() *EffectConfig {
	ce := *e
	if e.BeatZoom != nil {
		v := *e.BeatZoom
		ce.BeatZoom = &v
	}
	if e.Cutout != nil {
		v := *e.Cutout
		ce.Cutout = &v
	}
	if e.Cartoon != nil {
		v := *e.Cartoon
		ce.Cartoon = &v
	}
	if e.ColorGrade != nil {
		v := *e.ColorGrade
		ce.ColorGrade = &v
	}
	return &ce
}
