package fortune

import (
	"time"

	"github.com/google/uuid"
)

// DreamKeyword is a closed set of themes a caller may tag a dream with.
// The label is what gets interpolated into the prompt.
type DreamKeyword string

const (
	KeywordAnimal   DreamKeyword = "ANIMAL"
	KeywordFlying   DreamKeyword = "FLYING"
	KeywordWater    DreamKeyword = "WATER"
	KeywordFire     DreamKeyword = "FIRE"
	KeywordMoney    DreamKeyword = "MONEY"
	KeywordPerson   DreamKeyword = "PERSON"
	KeywordHouse    DreamKeyword = "HOUSE"
	KeywordCar      DreamKeyword = "CAR"
	KeywordFood     DreamKeyword = "FOOD"
	KeywordFlower   DreamKeyword = "FLOWER"
	KeywordMountain DreamKeyword = "MOUNTAIN"
	KeywordSea      DreamKeyword = "SEA"
	KeywordSchool   DreamKeyword = "SCHOOL"
	KeywordWork     DreamKeyword = "WORK"
	KeywordFamily   DreamKeyword = "FAMILY"
	KeywordFriends  DreamKeyword = "FRIENDS"
)

var dreamKeywordLabels = map[DreamKeyword]string{
	KeywordAnimal:   "동물",
	KeywordFlying:   "비행",
	KeywordWater:    "물",
	KeywordFire:     "불",
	KeywordMoney:    "돈",
	KeywordPerson:   "사람",
	KeywordHouse:    "집",
	KeywordCar:      "자동차",
	KeywordFood:     "음식",
	KeywordFlower:   "꽃",
	KeywordMountain: "산",
	KeywordSea:      "바다",
	KeywordSchool:   "학교",
	KeywordWork:     "직장",
	KeywordFamily:   "가족",
	KeywordFriends:  "친구",
}

// IsValid checks if the keyword is a known dream keyword.
func (k DreamKeyword) IsValid() bool {
	_, ok := dreamKeywordLabels[k]
	return ok
}

// Label returns the human-readable form used in prompts.
func (k DreamKeyword) Label() string {
	return dreamKeywordLabels[k]
}

// ImageType restricts face uploads to formats the vision model accepts.
type ImageType string

const (
	ImageJPEG ImageType = "JPEG"
	ImagePNG  ImageType = "PNG"
)

// IsValid checks if the image type is supported.
func (t ImageType) IsValid() bool {
	return t == ImageJPEG || t == ImagePNG
}

// MimeType returns the MIME type sent alongside the image URL.
func (t ImageType) MimeType() string {
	if t == ImageJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// FaceRequest carries the inputs for a face reading.
type FaceRequest struct {
	ImageURL  string    `json:"imageUrl" binding:"required,url"`
	ImageType ImageType `json:"imageType" binding:"required"`
}

// DreamRequest carries the inputs for a dream interpretation. Keywords are
// optional; description and mood are not.
type DreamRequest struct {
	Description string         `json:"dreamDescription" binding:"required"`
	Mood        string         `json:"dreamAtmosphere" binding:"required"`
	Keywords    []DreamKeyword `json:"keywords"`
}

// Validate rejects unknown keywords before any quota is spent.
func (r *DreamRequest) Validate() error {
	for _, k := range r.Keywords {
		if !k.IsValid() {
			return ErrInvalidRequest
		}
	}
	return nil
}

// DailyFortuneResponse mirrors the stored daily result.
type DailyFortuneResponse struct {
	ID          uuid.UUID `json:"id"`
	FortuneDate string    `json:"fortuneDate"`
	DailyReading
	CreatedAt time.Time `json:"createdAt"`
}

func (f *DailyFortune) ToResponse() *DailyFortuneResponse {
	return &DailyFortuneResponse{
		ID:           f.ID,
		FortuneDate:  f.FortuneDate,
		DailyReading: f.DailyReading,
		CreatedAt:    f.CreatedAt,
	}
}

// LifelongFortuneResponse mirrors the stored lifelong result.
type LifelongFortuneResponse struct {
	ID uuid.UUID `json:"id"`
	LifelongReading
	CreatedAt time.Time `json:"createdAt"`
}

func (f *LifelongFortune) ToResponse() *LifelongFortuneResponse {
	return &LifelongFortuneResponse{
		ID:              f.ID,
		LifelongReading: f.LifelongReading,
		CreatedAt:       f.CreatedAt,
	}
}

// FaceReadingResponse mirrors the stored face reading.
type FaceReadingResponse struct {
	ID uuid.UUID `json:"id"`
	FaceReadingPayload
	CreatedAt time.Time `json:"createdAt"`
}

func (f *FaceReading) ToResponse() *FaceReadingResponse {
	return &FaceReadingResponse{
		ID:                 f.ID,
		FaceReadingPayload: f.FaceReadingPayload,
		CreatedAt:          f.CreatedAt,
	}
}

// DreamAnalysisResponse mirrors the stored dream interpretation.
type DreamAnalysisResponse struct {
	ID uuid.UUID `json:"id"`
	DreamReading
	CreatedAt time.Time `json:"createdAt"`
}

func (d *DreamAnalysis) ToResponse() *DreamAnalysisResponse {
	return &DreamAnalysisResponse{
		ID:           d.ID,
		DreamReading: d.DreamReading,
		CreatedAt:    d.CreatedAt,
	}
}

// ResultSummary is one row in a user's result history.
type ResultSummary struct {
	Kind      Kind      `json:"kind"`
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResultListResponse is the payload of the result history endpoint.
type ResultListResponse struct {
	Results []ResultSummary `json:"results"`
}
