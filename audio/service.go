package audio

// CueService adapts CuePlayer to the service lifecycle.
type CueService struct {
	Player *CuePlayer
}

func (s *CueService) Name() string { return "audio-cues" }

func (s *CueService) Init() error {
	return s.Player.Initialize()
}

func (s *CueService) Start() error { return nil }

func (s *CueService) Stop() error {
	s.Player.Cleanup()
	return nil
}

// NarrationService adapts Narrator to the service lifecycle.
type NarrationService struct {
	Narrator *Narrator
}

func (s *NarrationService) Name() string { return "narration" }

func (s *NarrationService) Init() error { return nil }

func (s *NarrationService) Start() error {
	s.Narrator.Start()
	return nil
}

func (s *NarrationService) Stop() error {
	s.Narrator.Stop()
	return nil
}
