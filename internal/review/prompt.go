package review

import (
	"fmt"
	"strings"

	"github.com/jerryli27/coffee-project/internal/model"
)

const (
	maxPromptReviews    = 5
	maxReviewExcerptLen = 500
)

const styleExamples = `伦敦自习咖啡馆推荐 1
Redemption Roasters - Holborn
一直都有位子 离地铁站也就3分钟 想要聊天可以在一楼 想专心工作的下楼有很多位子和插座 wifi也很稳定#伦敦 #咖啡馆 #自习室 #工作使我快乐
伦敦自习咖啡馆推荐2
Shaman at Buckle Street Studios
Shaman 的其他店已经有很多人推过了 有一天路过的时候突然发现这一家
一楼二楼都有很多座位 有插座有网 离地铁站也就3分钟 周末住附近的在家忍不住摸鱼的十分推荐来这儿

#伦敦 #咖啡馆 #自习室 #工作使我快乐
伦敦自习咖啡馆推荐3
这家Harris + Hoole感觉没人推荐过 离UCL近 周围也有好多人学习 写作或者约coffee chat 挺有氛围的
有插座有网有咖啡 夫复何求
#伦敦咖啡  #伦敦自习  #自习室 #适合学习的咖啡厅`

func buildPrompt(rec *model.EnrichedRecord) string {
	name := rec.Name
	if name == "" {
		name = "Unknown Place"
	}
	address := rec.FormattedAddress
	if address == "" {
		address = "Address not available"
	}
	rating := "N/A"
	if rec.Rating != nil {
		rating = fmt.Sprintf("%.1f", *rec.Rating)
	}
	ratingCount := 0
	if rec.UserRatingsTotal != nil {
		ratingCount = *rec.UserRatingsTotal
	}

	hours := "Hours not available"
	if rec.OpeningHours != nil && len(rec.OpeningHours.WeekdayText) > 0 {
		hours = strings.Join(rec.OpeningHours.WeekdayText, "\n")
	}

	var excerpts []string
	for i, r := range rec.Reviews {
		if i == maxPromptReviews {
			break
		}
		excerpts = append(excerpts, fmt.Sprintf("Rating: %d/5 - %s", r.Rating, truncate(r.Text, maxReviewExcerptLen)))
	}
	reviews := "No recent reviews available"
	if len(excerpts) > 0 {
		reviews = strings.Join(excerpts, "\n")
	}

	return `You are writing a review for a place that is suitable for work, studying, or reading. Based on the information provided, write a short review in both English and Mandarin Chinese.

PLACE INFORMATION:
- Name: ` + name + `
- Address: ` + address + `
- Google Rating: ` + rating + `/5 (` + fmt.Sprint(ratingCount) + ` reviews)
- Place Types: ` + strings.Join(rec.Types, ", ") + `

OPENING HOURS:
` + hours + `

RECENT CUSTOMER REVIEWS:
` + reviews + `

REVIEW REQUIREMENTS:
1. Focus on suitability for work, studying, and reading
2. When these attributes are present, include them in the review (don't force it):
   - Can you stay for long periods?
   - Free WiFi availability
   - Power outlets availability
   - Any highlights of the place, e.g. the view, the atmosphere, the food, the drinks, etc.
3. Include practical information but prioritize the tone:
   - Weekend hours and closing times
   - Accessibility and ease of getting there
4. Keep the tone casual. Write as someone who has been to the place, from personal experience. Focus on the overall impression of the place.
5. Write simple reviews, 20 to 50 words each.

OUTPUT FORMAT:
Return your response as a JSON object with exactly this structure:
{
    "en": "English review text here",
    "zh": "中文评论文本在这里"
}

Example reviews as writing style references:

` + styleExamples + `
`
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
