package fortune

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the canonical form of a fortune date. Daily results are
// keyed by this string, not by a timestamp, so reuse lookups are immune to
// timezone drift between the API layer and the database.
const DateLayout = "2006-01-02"

// Result is the read-side view common to every stored fortune artifact.
// The orchestration layer uses it for id-based retrieval and listings
// without caring which kind produced the record.
type Result interface {
	ResultID() uuid.UUID
	ResultKind() Kind
	ResultCreatedAt() time.Time
}

// --- daily ---

// WealthOutlook is one section of a daily reading.
type WealthOutlook struct {
	Summary      string `gorm:"column:wealth_summary;type:text" json:"wealthSummary"`
	Tip1         string `gorm:"column:wealth_tip1" json:"wealthTip1"`
	Tip2         string `gorm:"column:wealth_tip2" json:"wealthTip2"`
	LottoNumbers string `gorm:"column:lotto_numbers" json:"lottoNumbers"`
}

type LoveOutlook struct {
	Single         string `gorm:"column:love_single;type:text" json:"single"`
	InRelationship string `gorm:"column:love_in_relationship;type:text" json:"inRelationship"`
	Married        string `gorm:"column:love_married;type:text" json:"married"`
}

type CareerOutlook struct {
	Tip1 string `gorm:"column:career_tip1" json:"tip1"`
	Tip2 string `gorm:"column:career_tip2" json:"tip2"`
	Tip3 string `gorm:"column:career_tip3" json:"tip3"`
	Tip4 string `gorm:"column:career_tip4" json:"tip4"`
}

type HealthOutlook struct {
	Tip1 string `gorm:"column:health_tip1" json:"tip1"`
	Tip2 string `gorm:"column:health_tip2" json:"tip2"`
	Tip3 string `gorm:"column:health_tip3" json:"tip3"`
	Tip4 string `gorm:"column:health_tip4" json:"tip4"`
}

type LuckyKeywords struct {
	LuckyColors    string `gorm:"column:lucky_colors" json:"luckyColors"`
	LuckyNumbers   string `gorm:"column:lucky_numbers" json:"luckyNumbers"`
	LuckyTimes     string `gorm:"column:lucky_times" json:"luckyTimes"`
	LuckyDirection string `gorm:"column:lucky_direction" json:"luckyDirection"`
	GoodFoods      string `gorm:"column:good_foods" json:"goodFoods"`
}

type DailyPrecautions struct {
	Precaution1 string `gorm:"column:precaution1" json:"precaution1"`
	Precaution2 string `gorm:"column:precaution2" json:"precaution2"`
	Precaution3 string `gorm:"column:precaution3" json:"precaution3"`
	Precaution4 string `gorm:"column:precaution4" json:"precaution4"`
}

type FortuneAdvice struct {
	AdviceText string `gorm:"column:advice_text;type:text" json:"adviceText"`
}

// DailyReading is the structured payload of a daily fortune, exactly as
// the generator emits it. The JSON tags double as the response schema
// requested from the model.
type DailyReading struct {
	OverallRating   int              `gorm:"column:overall_rating;not null" json:"overallRating"`
	OverallSummary  string           `gorm:"column:overall_summary;type:text;not null" json:"overallSummary"`
	Wealth          WealthOutlook    `gorm:"embedded" json:"wealth"`
	Love            LoveOutlook      `gorm:"embedded" json:"love"`
	Career          CareerOutlook    `gorm:"embedded" json:"career"`
	Health          HealthOutlook    `gorm:"embedded" json:"health"`
	Keywords        LuckyKeywords    `gorm:"embedded" json:"keywords"`
	Precautions     DailyPrecautions `gorm:"embedded" json:"precautions"`
	Advice          FortuneAdvice    `gorm:"embedded" json:"advice"`
	TomorrowPreview string           `gorm:"column:tomorrow_preview;type:text" json:"tomorrowPreview"`
}

// DailyFortune is one user's reading for one calendar date. The composite
// unique index is the durable half of the double-generation guard.
type DailyFortune struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_user_date" json:"userId"`
	FortuneDate string    `gorm:"size:10;not null;uniqueIndex:idx_daily_user_date" json:"fortuneDate"`
	DailyReading
	CreatedAt time.Time `json:"createdAt"`
}

func (DailyFortune) TableName() string { return "daily_fortunes" }

func (f *DailyFortune) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (f *DailyFortune) ResultID() uuid.UUID        { return f.ID }
func (f *DailyFortune) ResultKind() Kind           { return KindDaily }
func (f *DailyFortune) ResultCreatedAt() time.Time { return f.CreatedAt }

// --- lifelong ---

type Personality struct {
	Strength       string `gorm:"column:strength;type:text" json:"strength"`
	Talent         string `gorm:"column:talent;type:text" json:"talent"`
	Responsibility string `gorm:"column:responsibility;type:text" json:"responsibility"`
	Empathy        string `gorm:"column:empathy;type:text" json:"empathy"`
}

type LifetimeWealth struct {
	Twenties         string `gorm:"column:wealth_twenties;type:text" json:"twenties"`
	Thirties         string `gorm:"column:wealth_thirties;type:text" json:"thirties"`
	Forties          string `gorm:"column:wealth_forties;type:text" json:"forties"`
	FiftiesAndBeyond string `gorm:"column:wealth_fifties_and_beyond;type:text" json:"fiftiesAndBeyond"`
}

type LoveAndMarriage struct {
	FirstLove     string `gorm:"column:first_love;type:text" json:"firstLove"`
	MarriageAge   string `gorm:"column:marriage_age" json:"marriageAge"`
	SpouseMeeting string `gorm:"column:spouse_meeting;type:text" json:"spouseMeeting"`
	MarriedLife   string `gorm:"column:married_life;type:text" json:"marriedLife"`
}

type LifetimeCareer struct {
	SuccessfulFields string `gorm:"column:successful_fields;type:text" json:"successfulFields"`
	CareerChangeAge  string `gorm:"column:career_change_age" json:"careerChangeAge"`
	LeadershipStyle  string `gorm:"column:leadership_style;type:text" json:"leadershipStyle"`
	Entrepreneurship string `gorm:"column:entrepreneurship;type:text" json:"entrepreneurship"`
}

type LifetimeHealth struct {
	GeneralHealth       string `gorm:"column:general_health;type:text" json:"generalHealth"`
	WeakPoint           string `gorm:"column:weak_point" json:"weakPoint"`
	CheckupReminder     string `gorm:"column:checkup_reminder" json:"checkupReminder"`
	RecommendedExercise string `gorm:"column:recommended_exercise" json:"recommendedExercise"`
}

type TurningPoints struct {
	First  string `gorm:"column:turning_point_first;type:text" json:"first"`
	Second string `gorm:"column:turning_point_second;type:text" json:"second"`
	Third  string `gorm:"column:turning_point_third;type:text" json:"third"`
}

type GoodLuck struct {
	LuckyColors    string `gorm:"column:lucky_colors" json:"luckyColors"`
	LuckyNumbers   string `gorm:"column:lucky_numbers" json:"luckyNumbers"`
	LuckyDirection string `gorm:"column:lucky_direction" json:"luckyDirection"`
	GoodDays       string `gorm:"column:good_days" json:"goodDays"`
	Avoidances     string `gorm:"column:avoidances;type:text" json:"avoidances"`
}

// LifelongReading is the structured payload of a lifelong (total) fortune.
type LifelongReading struct {
	Personality     Personality     `gorm:"embedded" json:"personality"`
	Wealth          LifetimeWealth  `gorm:"embedded" json:"wealth"`
	LoveAndMarriage LoveAndMarriage `gorm:"embedded" json:"loveAndMarriage"`
	Career          LifetimeCareer  `gorm:"embedded" json:"career"`
	Health          LifetimeHealth  `gorm:"embedded" json:"health"`
	TurningPoints   TurningPoints   `gorm:"embedded" json:"turningPoints"`
	GoodLuck        GoodLuck        `gorm:"embedded" json:"goodLuck"`
}

// LifelongFortune is generated at most once per user, ever. The unique
// index on user_id enforces that in the store.
type LifelongFortune struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	LifelongReading
	CreatedAt time.Time `json:"createdAt"`
}

func (LifelongFortune) TableName() string { return "lifelong_fortunes" }

func (f *LifelongFortune) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (f *LifelongFortune) ResultID() uuid.UUID        { return f.ID }
func (f *LifelongFortune) ResultKind() Kind           { return KindLifelong }
func (f *LifelongFortune) ResultCreatedAt() time.Time { return f.CreatedAt }

// --- face ---

type OverallImpression struct {
	Impression string `gorm:"column:overall_impression;type:text" json:"overallImpression"`
	Fortune    string `gorm:"column:overall_fortune;type:text" json:"overallFortune"`
}

type FacialFeature struct {
	Feature string `gorm:"type:text" json:"feature"`
}

// FaceReadingPayload is the structured payload of a face reading.
type FaceReadingPayload struct {
	Overall OverallImpression `gorm:"embedded" json:"overallImpression"`
	Eye     FacialFeature     `gorm:"embedded;embeddedPrefix:eye_" json:"eye"`
	Nose    FacialFeature     `gorm:"embedded;embeddedPrefix:nose_" json:"nose"`
	Mouth   FacialFeature     `gorm:"embedded;embeddedPrefix:mouth_" json:"mouth"`
	Advice  FortuneAdvice     `gorm:"embedded" json:"advice"`
}

// FaceReading is never reused: every request that clears the gate stores a
// fresh row.
type FaceReading struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	FaceReadingPayload
	CreatedAt time.Time `json:"createdAt"`
}

func (FaceReading) TableName() string { return "face_readings" }

func (f *FaceReading) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (f *FaceReading) ResultID() uuid.UUID        { return f.ID }
func (f *FaceReading) ResultKind() Kind           { return KindFace }
func (f *FaceReading) ResultCreatedAt() time.Time { return f.CreatedAt }

// --- dream ---

type SymbolInterpretation struct {
	SymbolText string `gorm:"column:symbol_text;type:text" json:"symbolText"`
}

type PsychologicalAnalysis struct {
	Tip1 string `gorm:"column:psych_tip1;type:text" json:"tip1"`
	Tip2 string `gorm:"column:psych_tip2;type:text" json:"tip2"`
	Tip3 string `gorm:"column:psych_tip3;type:text" json:"tip3"`
	Tip4 string `gorm:"column:psych_tip4;type:text" json:"tip4"`
}

type FortuneProspects struct {
	ShortTermOutlook  string `gorm:"column:short_term_outlook;type:text" json:"shortTermOutlook"`
	MediumTermOutlook string `gorm:"column:medium_term_outlook;type:text" json:"mediumTermOutlook"`
	LongTermOutlook   string `gorm:"column:long_term_outlook;type:text" json:"longTermOutlook"`
}

type DreamPrecautions struct {
	Precaution1 string `gorm:"column:precaution1;type:text" json:"precaution1"`
	Precaution2 string `gorm:"column:precaution2;type:text" json:"precaution2"`
	Precaution3 string `gorm:"column:precaution3;type:text" json:"precaution3"`
}

type AdviceAndLuck struct {
	Advice1 string `gorm:"column:advice1;type:text" json:"advice1"`
	Advice2 string `gorm:"column:advice2;type:text" json:"advice2"`
	Advice3 string `gorm:"column:advice3;type:text" json:"advice3"`
	Advice4 string `gorm:"column:advice4;type:text" json:"advice4"`
	Advice5 string `gorm:"column:advice5;type:text" json:"advice5"`
}

type SpecialMessage struct {
	MessageText string `gorm:"column:message_text;type:text" json:"messageText"`
}

// DreamReading is the structured payload of a dream interpretation.
type DreamReading struct {
	Summary               string                `gorm:"column:summary;type:text;not null" json:"summary"`
	SymbolInterpretation  SymbolInterpretation  `gorm:"embedded" json:"symbolInterpretation"`
	PsychologicalAnalysis PsychologicalAnalysis `gorm:"embedded" json:"psychologicalAnalysis"`
	FortuneProspects      FortuneProspects      `gorm:"embedded" json:"fortuneProspects"`
	Precautions           DreamPrecautions      `gorm:"embedded" json:"precautions"`
	AdviceAndLuck         AdviceAndLuck         `gorm:"embedded" json:"adviceAndLuck"`
	SpecialMessage        SpecialMessage        `gorm:"embedded" json:"specialMessage"`
}

// DreamAnalysis is never reused, same as FaceReading.
type DreamAnalysis struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	DreamReading
	CreatedAt time.Time `json:"createdAt"`
}

func (DreamAnalysis) TableName() string { return "dream_analyses" }

func (d *DreamAnalysis) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d *DreamAnalysis) ResultID() uuid.UUID        { return d.ID }
func (d *DreamAnalysis) ResultKind() Kind           { return KindDream }
func (d *DreamAnalysis) ResultCreatedAt() time.Time { return d.CreatedAt }
