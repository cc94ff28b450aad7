package generator

// Tool is one calculator or game page under /tools.
type Tool struct {
	Slug        string
	Title       string
	Description string
	Priority    string
}

// Route is the tool's site path.
func (t Tool) Route() string {
	return "/tools/" + t.Slug
}

var defaultTools = []Tool{
	{"compound-interest", "복리 계산기", "복리 효과를 한눈에 확인하세요. 초기 투자금, 매월 적립액, 수익률을 입력하면 자산 성장 그래프와 연도별 상세 내역을 보여드립니다.", "0.8"},
	{"loan-interest", "대출 이자 계산기", "대출 원리금 상환 계획을 한눈에. 원리금균등, 원금균등, 만기일시상환 방식별 월 상환액과 총 이자를 비교해보세요.", "0.8"},
	{"salary", "연봉 실수령액 계산기", "연봉에서 4대보험과 소득세를 공제한 실수령액을 정확하게 계산합니다.", "0.8"},
	{"savings", "적금·예금 이자 계산기", "적금과 예금의 만기 수령액을 비교 계산합니다.", "0.8"},
	{"severance", "퇴직금 계산기", "근속 기간과 급여 정보를 입력하면 예상 퇴직금을 계산합니다.", "0.8"},
	{"pension", "연금 수령액 계산기", "국민연금 예상 수령액을 계산합니다.", "0.8"},
	{"real-estate", "부동산 수익률 계산기", "부동산 투자 수익률을 정확하게 분석합니다.", "0.8"},
	{"bmi", "BMI 계산기", "키와 몸무게를 입력하면 BMI 지수와 비만도를 확인할 수 있습니다.", "0.7"},
	{"age", "나이·만나이 계산기", "생년월일을 입력하면 만나이, 한국식 나이, 연나이를 한번에 확인할 수 있습니다.", "0.7"},
	{"exchange-rate", "환율 계산기", "실시간 환율 기반으로 통화를 변환합니다.", "0.8"},
	{"jeonse-wolse", "전세↔월세 전환 계산기", "전세보증금과 월세를 상호 전환하여 비교합니다.", "0.8"},
	{"stock-return", "주식 수익률 계산기", "주식 투자 수익률을 계산합니다.", "0.8"},
	{"loan-refinance", "대출 갈아타기 비교기", "기존 대출과 신규 대출 조건을 비교하여 갈아타기 시 절감 금액을 계산합니다.", "0.8"},
	{"electricity", "전기요금 계산기", "가정용 전기요금을 누진제 기준으로 계산합니다.", "0.7"},
	{"hourly-wage", "시급·일급 변환 계산기", "시급, 일급, 주급, 월급을 상호 변환합니다.", "0.8"},
	{"income-tax", "종합소득세 계산기", "종합소득세를 간편하게 계산합니다.", "0.8"},
	{"car-cost", "자동차 유지비 계산기", "자동차 연간 유지비를 계산합니다.", "0.7"},
	{"retirement", "은퇴 자금 계산기", "은퇴 후 필요한 자금을 계산합니다.", "0.8"},
	{"child-cost", "육아 비용 계산기", "자녀 양육에 드는 비용을 단계별로 계산합니다.", "0.7"},
	{"vat", "부가세(VAT) 계산기", "공급가액과 부가세를 간편하게 계산합니다.", "0.7"},
	{"chess", "체스 게임", "AI와 대결하는 온라인 체스 게임입니다.", "0.5"},
	{"peg-solitaire", "페그 솔리테어", "혼자 즐기는 클래식 보드게임입니다.", "0.5"},
	{"janggi", "장기 게임", "AI와 대국하는 온라인 장기 게임입니다.", "0.5"},
	{"gomoku", "오목 게임", "AI와 대결하는 오목 게임입니다.", "0.5"},
	{"sudoku", "스도쿠 게임", "다양한 난이도의 스도쿠 퍼즐을 풀어보세요.", "0.5"},
	{"baduk", "바둑 게임", "AI와 대국하는 온라인 바둑 게임입니다.", "0.5"},
}

// DefaultTools returns a copy of the published tool catalog in site order.
func DefaultTools() []Tool {
	tools := make([]Tool, len(defaultTools))
	copy(tools, defaultTools)
	return tools
}

func findTool(tools []Tool, route string) (Tool, bool) {
	for _, tool := range tools {
		if tool.Route() == route {
			return tool, true
		}
	}
	return Tool{}, false
}
