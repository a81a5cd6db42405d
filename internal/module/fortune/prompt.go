package fortune

import (
	"fmt"
	"regexp"
	"strings"
)

// Matches {name}-style placeholders, not the literal JSON braces that the
// schema blocks in the templates are full of.
var placeholderRe = regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_]*\}`)

// renderPrompt substitutes {name}-style placeholders. Every placeholder in
// the template must be covered by params; a missing one means the strategy
// built its params wrong, and that is a bug worth failing on. The check
// runs against the template, not the output, so caller-supplied text that
// happens to contain braces cannot trip it.
func renderPrompt(template string, params map[string]string) (string, error) {
	for _, ph := range placeholderRe.FindAllString(template, -1) {
		if _, ok := params[strings.Trim(ph, "{}")]; !ok {
			return "", fmt.Errorf("unresolved prompt placeholder %s", ph)
		}
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template), nil
}

const dailyPromptTemplate = `You are a professional saju (four pillars) fortune teller.
Write today's fortune for the following person.

Name: {name}
Birth: {birthYear}-{birthMonth}-{birthDay}, time slot {birthTime}
Sex: {sex}

Respond with a single JSON object using exactly this schema:
{"overallRating": <integer 1-5>, "overallSummary": "...",
 "wealth": {"wealthSummary": "...", "wealthTip1": "...", "wealthTip2": "...", "lottoNumbers": "..."},
 "love": {"single": "...", "inRelationship": "...", "married": "..."},
 "career": {"tip1": "...", "tip2": "...", "tip3": "...", "tip4": "..."},
 "health": {"tip1": "...", "tip2": "...", "tip3": "...", "tip4": "..."},
 "keywords": {"luckyColors": "...", "luckyNumbers": "...", "luckyTimes": "...", "luckyDirection": "...", "goodFoods": "..."},
 "precautions": {"precaution1": "...", "precaution2": "...", "precaution3": "...", "precaution4": "..."},
 "advice": {"adviceText": "..."},
 "tomorrowPreview": "..."}
Every field is required. Do not add fields.`

const lifelongPromptTemplate = `You are a professional saju (four pillars) fortune teller.
Write a lifetime fortune reading for the following person.

Name: {name}
Birth: {birthYear}-{birthMonth}-{birthDay}, time slot {birthTime}
Sex: {sex}

Respond with a single JSON object using exactly this schema:
{"personality": {"strength": "...", "talent": "...", "responsibility": "...", "empathy": "..."},
 "wealth": {"twenties": "...", "thirties": "...", "forties": "...", "fiftiesAndBeyond": "..."},
 "loveAndMarriage": {"firstLove": "...", "marriageAge": "...", "spouseMeeting": "...", "marriedLife": "..."},
 "career": {"successfulFields": "...", "careerChangeAge": "...", "leadershipStyle": "...", "entrepreneurship": "..."},
 "health": {"generalHealth": "...", "weakPoint": "...", "checkupReminder": "...", "recommendedExercise": "..."},
 "turningPoints": {"first": "...", "second": "...", "third": "..."},
 "goodLuck": {"luckyColors": "...", "luckyNumbers": "...", "luckyDirection": "...", "goodDays": "...", "avoidances": "..."}}
Every field is required. Do not add fields.`

const facePromptTemplate = `You are a physiognomy expert.
Study the attached face photo and write a face reading for {name}, born in {birthYear}.

Respond with a single JSON object using exactly this schema:
{"overallImpression": {"overallImpression": "...", "overallFortune": "..."},
 "eye": {"feature": "..."},
 "nose": {"feature": "..."},
 "mouth": {"feature": "..."},
 "advice": {"adviceText": "..."}}
Every field is required. Do not add fields.`

const dreamPromptTemplate = `You are a dream interpretation expert.
Interpret the following dream.

Dream description: {dream_description}
Atmosphere of the dream: {mood}
Keywords: {keywords}

Respond with a single JSON object using exactly this schema:
{"summary": "...",
 "symbolInterpretation": {"symbolText": "..."},
 "psychologicalAnalysis": {"tip1": "...", "tip2": "...", "tip3": "...", "tip4": "..."},
 "fortuneProspects": {"shortTermOutlook": "...", "mediumTermOutlook": "...", "longTermOutlook": "..."},
 "precautions": {"precaution1": "...", "precaution2": "...", "precaution3": "..."},
 "adviceAndLuck": {"advice1": "...", "advice2": "...", "advice3": "...", "advice4": "...", "advice5": "..."},
 "specialMessage": {"messageText": "..."}}
Every field is required. Do not add fields.`
