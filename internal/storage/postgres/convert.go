package postgres

import "github.com/todaylotto/backend/internal/domain"

func toQuestionDomain(m *QuestionModel) domain.Question {
	q := domain.Question{
		ID:        m.ID,
		Bucket:    domain.QuestionBucket(m.Bucket),
		Text:      m.Text,
		Strength:  m.Strength,
		Polarity:  m.Polarity,
		TagOnHigh: m.TagOnHigh,
		TagOnLow:  m.TagOnLow,
		Weight:    m.Weight,
	}
	if a, ok := domain.ParseAxis(m.PrimaryAxis); ok {
		q.PrimaryAxis = a
	}
	if m.SecondaryAxis != nil {
		if a, ok := domain.ParseAxis(*m.SecondaryAxis); ok {
			q.SecondaryAxis = &a
		}
	}
	return q
}

func toQuestionModel(q domain.Question) QuestionModel {
	m := QuestionModel{
		ID:          q.ID,
		Bucket:      string(q.Bucket),
		Text:        q.Text,
		PrimaryAxis: q.PrimaryAxis.String(),
		Strength:    q.Strength,
		Polarity:    q.Polarity,
		TagOnHigh:   q.TagOnHigh,
		TagOnLow:    q.TagOnLow,
		Weight:      q.Weight,
	}
	if q.SecondaryAxis != nil {
		s := q.SecondaryAxis.String()
		m.SecondaryAxis = &s
	}
	return m
}

func toChoiceDomain(m *ChoiceModel) domain.Choice {
	return domain.Choice{ID: m.ID, Value: m.Value, Label: m.Label}
}

func toChoiceModel(c domain.Choice) ChoiceModel {
	return ChoiceModel{ID: c.ID, Value: c.Value, Label: c.Label}
}

func toMessageDomain(m *MessagePoolModel) domain.MessagePool {
	return domain.MessagePool{
		ID:           m.ID,
		Category:     domain.MessageCategory(m.Category),
		Tone:         domain.Tone(m.Tone),
		MinScore:     m.MinScore,
		MaxScore:     m.MaxScore,
		RequiredTags: m.RequiredTags,
		BlockedTags:  m.BlockedTags,
		Conditions:   m.Conditions,
		Text:         m.Text,
		Weight:       m.Weight,
		Priority:     m.Priority,
	}
}

func toMessageModel(p domain.MessagePool) MessagePoolModel {
	return MessagePoolModel{
		ID:           p.ID,
		Category:     string(p.Category),
		Tone:         string(p.Tone),
		MinScore:     p.MinScore,
		MaxScore:     p.MaxScore,
		RequiredTags: p.RequiredTags,
		BlockedTags:  p.BlockedTags,
		Conditions:   p.Conditions,
		Text:         p.Text,
		Weight:       p.Weight,
		Priority:     p.Priority,
	}
}

func toLongformDomain(m *LongformBlockModel) domain.LongformBlock {
	return domain.LongformBlock{
		ID:           m.ID,
		Section:      domain.LongformSection(m.Section),
		Tone:         domain.Tone(m.Tone),
		MinScore:     m.MinScore,
		MaxScore:     m.MaxScore,
		RequiredTags: m.RequiredTags,
		BlockedTags:  m.BlockedTags,
		Conditions:   m.Conditions,
		TextTemplate: m.TextTemplate,
		Weight:       m.Weight,
		Priority:     m.Priority,
	}
}

func toLongformModel(b domain.LongformBlock) LongformBlockModel {
	return LongformBlockModel{
		ID:           b.ID,
		Section:      string(b.Section),
		Tone:         string(b.Tone),
		MinScore:     b.MinScore,
		MaxScore:     b.MaxScore,
		RequiredTags: b.RequiredTags,
		BlockedTags:  b.BlockedTags,
		Conditions:   b.Conditions,
		TextTemplate: b.TextTemplate,
		Weight:       b.Weight,
		Priority:     b.Priority,
	}
}

func toPhraseDomain(m *PhrasePoolModel) domain.PhrasePool {
	return domain.PhrasePool{ID: m.ID, SlotKey: m.SlotKey, Tone: domain.Tone(m.Tone), Text: m.Text, Weight: m.Weight}
}

func toPhraseModel(p domain.PhrasePool) PhrasePoolModel {
	return PhrasePoolModel{ID: p.ID, SlotKey: p.SlotKey, Tone: string(p.Tone), Text: p.Text, Weight: p.Weight}
}

func toStrategyCardDomain(m *StrategyCardPoolModel) domain.StrategyCardPool {
	return domain.StrategyCardPool{
		ID:             m.ID,
		CardType:       m.CardType,
		Tone:           domain.Tone(m.Tone),
		MinScore:       m.MinScore,
		MaxScore:       m.MaxScore,
		RequiredTags:   m.RequiredTags,
		BlockedTags:    m.BlockedTags,
		Conditions:     m.Conditions,
		TitleTemplate:  m.TitleTemplate,
		BodyTemplate:   m.BodyTemplate,
		FooterTemplate: m.FooterTemplate,
		Weight:         m.Weight,
		Priority:       m.Priority,
		Tags:           m.Tags,
	}
}

func toStrategyCardModel(c domain.StrategyCardPool) StrategyCardPoolModel {
	return StrategyCardPoolModel{
		ID:             c.ID,
		CardType:       c.CardType,
		Tone:           string(c.Tone),
		MinScore:       c.MinScore,
		MaxScore:       c.MaxScore,
		RequiredTags:   c.RequiredTags,
		BlockedTags:    c.BlockedTags,
		Conditions:     c.Conditions,
		TitleTemplate:  c.TitleTemplate,
		BodyTemplate:   c.BodyTemplate,
		FooterTemplate: c.FooterTemplate,
		Weight:         c.Weight,
		Priority:       c.Priority,
		Tags:           c.Tags,
	}
}

func toStrategySlotDomain(m *StrategySlotPoolModel) domain.StrategySlotPool {
	return domain.StrategySlotPool{ID: m.ID, SlotKey: m.SlotKey, Tone: domain.Tone(m.Tone), Text: m.Text, Weight: m.Weight}
}

func toStrategySlotModel(s domain.StrategySlotPool) StrategySlotPoolModel {
	return StrategySlotPoolModel{ID: s.ID, SlotKey: s.SlotKey, Tone: string(s.Tone), Text: s.Text, Weight: s.Weight}
}

func toStrategyRuleDomain(m *StrategyRuleMapModel) domain.StrategyRuleMap {
	return domain.StrategyRuleMap{
		ID:             m.ID,
		ScoreBand:      domain.ScoreBand(m.ScoreBand),
		MandatoryTypes: m.MandatoryTypes,
		OptionalTypes:  m.OptionalTypes,
		MaxCards:       m.MaxCards,
		DedupeKeyRules: m.DedupeKeyRules,
	}
}

func toStrategyRuleModel(r domain.StrategyRuleMap) StrategyRuleMapModel {
	return StrategyRuleMapModel{
		ID:             r.ID,
		ScoreBand:      string(r.ScoreBand),
		MandatoryTypes: r.MandatoryTypes,
		OptionalTypes:  r.OptionalTypes,
		MaxCards:       r.MaxCards,
		DedupeKeyRules: r.DedupeKeyRules,
	}
}

func toStyleProfileDomain(m *StyleProfileModel) domain.StyleProfile {
	return domain.StyleProfile{ID: m.ID, Tone: domain.Tone(m.Tone), EmojiRate: m.EmojiRate, HeadingStyle: m.HeadingStyle}
}

func toStyleProfileModel(p domain.StyleProfile) StyleProfileModel {
	return StyleProfileModel{ID: p.ID, Tone: string(p.Tone), EmojiRate: p.EmojiRate, HeadingStyle: p.HeadingStyle}
}

func toKeywordEntryDomain(m *KeywordDictionaryModel) domain.KeywordEntry {
	return domain.KeywordEntry{ID: m.ID, Keyword: m.Keyword, Normalized: m.Normalized, Tag: m.Tag}
}

func toKeywordEntryModel(e domain.KeywordEntry) KeywordDictionaryModel {
	return KeywordDictionaryModel{ID: e.ID, Keyword: e.Keyword, Normalized: e.Normalized, Tag: e.Tag}
}

func toKeywordRuleDomain(m *KeywordRuleModel) domain.KeywordRule {
	return domain.KeywordRule{
		ID:          m.ID,
		KeywordID:   m.KeywordID,
		ScoreDelta:  m.ScoreDelta,
		Tag:         m.Tag,
		Description: m.Description,
		Weight:      m.Weight,
	}
}

func toKeywordRuleModel(r domain.KeywordRule) KeywordRuleModel {
	return KeywordRuleModel{
		ID:          r.ID,
		KeywordID:   r.KeywordID,
		ScoreDelta:  r.ScoreDelta,
		Tag:         r.Tag,
		Description: r.Description,
		Weight:      r.Weight,
	}
}

func tonesToStrings(tones []domain.Tone) []string {
	out := make([]string, len(tones))
	for i, t := range tones {
		out[i] = string(t)
	}
	return out
}
