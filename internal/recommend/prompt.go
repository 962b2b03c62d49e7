// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recommend

import (
	"fmt"
	"strings"

	"github.com/taibuivan/bolgeo/internal/catalog"
)

// RecommendationCount is the number of titles the model is asked for.
const RecommendationCount = 3

// promptTemplate arguments: 1 catalog text, 2 seen list, 3 user prompt,
// 4 recommendation count.
const promptTemplate = `당신은 대한민국 웹툰 비평가입니다. 아래 지침을 엄격히 준수하여 JSON으로 응답하세요.
반드시 참조 데이터베이스에 근거하여 답변해야합니다. 사용자가 이미 읽은 작품은 추천하지 마세요.

[참조 데이터베이스]
%[1]s

다음은 사용자가 이미 읽은 작품 리스트입니다: [%[2]s].

[엄격 지침1]
1. 반드시 참조 데이터베이스에서 정보를 확인하고 추천하세요.
2. 추천할 때 반드시 별점이 높아야할 필요는 없습니다.
3. 사용자가 이미 읽은 작품 리스트에 있는 작품은 추천하지 마세요.
4. %[4]d개의 웹툰을 추천합니다.
5. 사용자의 요구: "%[3]s"를 정확히 반영합니다.
6. 한국어로 답변합니다. 반드시 아래 JSON 형식으로만 응답하세요.

[응답 JSON 형식 예시]
{
  "recommendations": [
    {
      "title": "정확한 제목",
      "platform": "네이버/카카오/레진 등 플랫폼 명",
      "status": "완결/연재중",
      "genres": ["로맨스/판타지/무협/코미디/느와르/학원/액션/스릴러/BL/GL 등 %[4]d개"],
      "score": 4.5
    }
  ]
}

[실제 사용자 요청]
사용자의 요구: "%[3]s"
AI 답변:
`

// BuildPrompt assembles the full instruction for the model. The user prompt
// is embedded verbatim.
func BuildPrompt(c *catalog.Catalog, excludes []string, userPrompt string) string {
	return fmt.Sprintf(promptTemplate, c.Text(), strings.Join(excludes, ", "), userPrompt, RecommendationCount)
}
