package httpapi

import "github.com/ford-at-home/storygen-sub000/internal/session"

func toCandidateDTOs(cs []session.Candidate) []CandidateDTO {
	if len(cs) == 0 {
		return nil
	}
	out := make([]CandidateDTO, len(cs))
	for i, c := range cs {
		out[i] = CandidateDTO{Title: c.Title, Body: c.Body}
	}
	return out
}

func toFinalStoryDTO(f *session.FinalStory) *FinalStoryDTO {
	if f == nil {
		return nil
	}
	return &FinalStoryDTO{
		Text:                f.Text,
		Style:               f.Style,
		WordCount:           f.WordCount,
		Themes:              f.Themes,
		Tone:                f.Tone,
		Angle:               f.Angle,
		RichmondContextUsed: f.RichmondContextUsed,
	}
}

func toSessionResponse(s session.Session) SessionResponse {
	history := make([]TurnDTO, len(s.History))
	for i, t := range s.History {
		history[i] = TurnDTO{Index: t.Index, Role: string(t.Role), Content: t.Content, CreatedAt: t.CreatedAt}
	}
	return SessionResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		Stage:       string(s.Stage),
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		TTLDeadline: s.TTLDeadline,
		History:     history,
		CoreIdea:    s.Elements.CoreIdea,
		DepthScore:  s.Elements.DepthScore,
		Hooks:       toCandidateDTOs(s.Elements.Hooks),
		CTAs:        toCandidateDTOs(s.Elements.CTAs),
		FinalStory:  toFinalStoryDTO(s.Elements.FinalStory),
		Metadata:    toMetadataDTO(s),
	}
}

func toMetadataDTO(s session.Session) MetadataDTO {
	return MetadataDTO{
		TurnCount:         len(s.History),
		LLMCalls:          s.Metadata.LLMCalls,
		ContextChunksUsed: s.Metadata.ContextChunksUsed,
		FollowUpRounds:    s.Metadata.FollowUpRounds,
	}
}
