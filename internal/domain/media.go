package domain

// MediaState holds a participant's self-reported presence flags.
// Mutated only by that participant's own events, read by the whole room.
type MediaState struct {
	AudioEnabled  bool `json:"audioEnabled"`
	VideoEnabled  bool `json:"videoEnabled"`
	ScreenSharing bool `json:"screenSharing"`
}

// DefaultMediaState is what every participant starts with at join time.
func DefaultMediaState() MediaState {
	return MediaState{AudioEnabled: true, VideoEnabled: true}
}

// MediaStatePatch carries only the flags present in an update; nil fields
// keep their prior value.
type MediaStatePatch struct {
	AudioEnabled  *bool
	VideoEnabled  *bool
	ScreenSharing *bool
}

// Apply merges the patch into a state and returns the result.
func (p MediaStatePatch) Apply(st MediaState) MediaState {
	if p.AudioEnabled != nil {
		st.AudioEnabled = *p.AudioEnabled
	}
	if p.VideoEnabled != nil {
		st.VideoEnabled = *p.VideoEnabled
	}
	if p.ScreenSharing != nil {
		st.ScreenSharing = *p.ScreenSharing
	}
	return st
}
