package memstore

import "context"

// sample whispers shown on a fresh DB-less instance
var sampleWhispers = []struct {
	content  string
	category string
}{
	{"Sometimes I wonder if I'm good enough for the dreams I chase...", "thoughts"},
	{"I wish I had told them how much they meant to me before it was too late.", "regrets"},
	{"Why does everything feel so overwhelming today? I just want to disappear.", "frustration"},
	{"Remember when we used to watch the sunset from that old bridge? Those were simpler times.", "memories"},
	{"I've been struggling with anxiety lately and I don't know who to talk to about it.", "open"},
}

// Seed populates the store with the sample whisper set.
func (s *Store) Seed(ctx context.Context) error {
	for _, sample := range sampleWhispers {
		if _, err := s.CreateWhisper(ctx, sample.content, sample.category); err != nil {
			return err
		}
	}
	return nil
}
