package postgres

import "time"

// QuestionModel maps to the "question" table.
type QuestionModel struct {
	ID            int64   `gorm:"primaryKey;autoIncrement"`
	Bucket        string  `gorm:"size:20;not null;index"`
	Text          string  `gorm:"size:300;not null"`
	PrimaryAxis   string  `gorm:"size:20;not null"`
	SecondaryAxis *string `gorm:"size:20"`
	Strength      int     `gorm:"not null;default:100"` // hundredths
	Polarity      int     `gorm:"not null;default:1"`
	TagOnHigh     string  `gorm:"size:60"`
	TagOnLow      string  `gorm:"size:60"`
	Weight        int     `gorm:"not null;default:1"`
}

func (QuestionModel) TableName() string { return "question" }

// ChoiceModel maps to the "choice" table.
type ChoiceModel struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Value int    `gorm:"not null;uniqueIndex"`
	Label string `gorm:"size:100;not null"`
}

func (ChoiceModel) TableName() string { return "choice" }

// MessagePoolModel maps to the "message_pool" table.
type MessagePoolModel struct {
	ID           int64  `gorm:"primaryKey"`
	Category     string `gorm:"size:20;not null;index:idx_message_scope"`
	Tone         string `gorm:"size:20;not null;index:idx_message_scope"`
	MinScore     int    `gorm:"not null"`
	MaxScore     int    `gorm:"not null"`
	RequiredTags string `gorm:"size:400"`
	BlockedTags  string `gorm:"size:400"`
	Conditions   string `gorm:"column:conditions_json"`
	Text         string `gorm:"size:800;not null"`
	Weight       int    `gorm:"not null;default:1"`
	Priority     int    `gorm:"not null;default:0"`
}

func (MessagePoolModel) TableName() string { return "message_pool" }

// LongformBlockModel maps to the "longform_block" table.
type LongformBlockModel struct {
	ID           int64  `gorm:"primaryKey"`
	Section      string `gorm:"size:20;not null;index:idx_longform_scope"`
	Tone         string `gorm:"size:20;not null;index:idx_longform_scope"`
	MinScore     int    `gorm:"not null"`
	MaxScore     int    `gorm:"not null"`
	RequiredTags string `gorm:"size:400"`
	BlockedTags  string `gorm:"size:400"`
	Conditions   string `gorm:"column:conditions_json"`
	TextTemplate string `gorm:"size:2000;not null"`
	Weight       int    `gorm:"not null;default:1"`
	Priority     int    `gorm:"not null;default:0"`
}

func (LongformBlockModel) TableName() string { return "longform_block" }

// PhrasePoolModel maps to the "phrase_pool" table.
type PhrasePoolModel struct {
	ID      int64  `gorm:"primaryKey"`
	SlotKey string `gorm:"size:60;not null;index:idx_phrase_scope"`
	Tone    string `gorm:"size:20;not null;index:idx_phrase_scope"`
	Text    string `gorm:"size:400;not null"`
	Weight  int    `gorm:"not null;default:1"`
}

func (PhrasePoolModel) TableName() string { return "phrase_pool" }

// StrategyCardPoolModel maps to the "strategy_card_pool" table.
type StrategyCardPoolModel struct {
	ID             int64  `gorm:"primaryKey"`
	CardType       string `gorm:"size:20;not null;index:idx_strategy_card_scope"`
	Tone           string `gorm:"size:20;not null;index:idx_strategy_card_scope"`
	MinScore       int    `gorm:"not null"`
	MaxScore       int    `gorm:"not null"`
	RequiredTags   string `gorm:"size:400"`
	BlockedTags    string `gorm:"size:400"`
	Conditions     string `gorm:"column:conditions_json"`
	TitleTemplate  string `gorm:"size:300;not null"`
	BodyTemplate   string `gorm:"size:1000;not null"`
	FooterTemplate string `gorm:"size:300"`
	Weight         int    `gorm:"not null;default:1"`
	Priority       int    `gorm:"not null;default:0"`
	Tags           string `gorm:"size:400"`
}

func (StrategyCardPoolModel) TableName() string { return "strategy_card_pool" }

// StrategySlotPoolModel maps to the "strategy_slot_pool" table.
type StrategySlotPoolModel struct {
	ID      int64  `gorm:"primaryKey"`
	SlotKey string `gorm:"size:60;not null;index:idx_strategy_slot_scope"`
	Tone    string `gorm:"size:20;not null;index:idx_strategy_slot_scope"`
	Text    string `gorm:"size:400;not null"`
	Weight  int    `gorm:"not null;default:1"`
}

func (StrategySlotPoolModel) TableName() string { return "strategy_slot_pool" }

// StrategyRuleMapModel maps to the "strategy_rule_map" table.
type StrategyRuleMapModel struct {
	ID             int64  `gorm:"primaryKey"`
	ScoreBand      string `gorm:"size:10;not null;index"`
	MandatoryTypes string `gorm:"size:200"`
	OptionalTypes  string `gorm:"size:200"`
	MaxCards       int    `gorm:"not null;default:3"`
	DedupeKeyRules string `gorm:"size:200"`
}

func (StrategyRuleMapModel) TableName() string { return "strategy_rule_map" }

// StyleProfileModel maps to the "style_profile" table.
type StyleProfileModel struct {
	ID           int64  `gorm:"primaryKey"`
	Tone         string `gorm:"size:20;not null;uniqueIndex"`
	EmojiRate    int    `gorm:"not null;default:15"`
	HeadingStyle string `gorm:"size:10;not null;default:'##'"`
}

func (StyleProfileModel) TableName() string { return "style_profile" }

// KeywordDictionaryModel maps to the "keyword_dictionary" table.
type KeywordDictionaryModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Keyword    string `gorm:"size:100;not null"`
	Normalized string `gorm:"size:100;not null;index"`
	Tag        string `gorm:"size:60"`
}

func (KeywordDictionaryModel) TableName() string { return "keyword_dictionary" }

// KeywordRuleModel maps to the "keyword_rule" table.
type KeywordRuleModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	KeywordID   int64  `gorm:"not null;index"`
	ScoreDelta  int    `gorm:"not null"`
	Tag         string `gorm:"size:60"`
	Description string `gorm:"size:300"`
	Weight      int    `gorm:"not null;default:1"`
}

func (KeywordRuleModel) TableName() string { return "keyword_rule" }

// ReportCacheModel maps to the "report_cache" table.
type ReportCacheModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	CacheKey     string    `gorm:"size:120;not null;uniqueIndex"`
	CreatedAt    time.Time `gorm:"not null;index"`
	ResponseJSON []byte    `gorm:"not null"`
}

func (ReportCacheModel) TableName() string { return "report_cache" }
