package generator

// staticPage is a fixed route of the site shell.
type staticPage struct {
	Path        string
	ChangeFreq  string
	Priority    string
	Title       string
	Description string
}

var staticPages = []staticPage{
	{"/", "daily", "1.0", "", "AI, 재테크, 부업, 비즈니스 — 경제적 자유를 향한 매일의 인사이트를 전합니다. 복리 계산기, 연봉 계산기 등 무료 재무 도구도 이용하세요."},
	{"/blog", "daily", "0.9", "블로그", "AI, 재테크, 부업, 비즈니스 — 경제적 자유를 향한 매일의 인사이트를 전합니다."},
	{"/tools", "weekly", "0.9", "무료 계산기 도구 모음", "복리 계산기, 대출 이자 계산기, 연봉 실수령액 계산기, 환율 계산기 등 20가지 이상의 무료 재무·생활 계산기를 이용하세요."},
	{"/about", "monthly", "0.6", "소개", "부자타임은 AI 시대의 경제적 자유를 위한 인사이트를 매일 전하는 콘텐츠 플랫폼입니다."},
	{"/contact", "monthly", "0.5", "문의하기", "부자타임에 문의사항이 있으시면 연락해 주세요."},
	{"/privacy", "yearly", "0.3", "개인정보처리방침", "부자타임의 개인정보처리방침입니다."},
	{"/terms", "yearly", "0.3", "이용약관", "부자타임의 서비스 이용약관입니다."},
}

const (
	categoryRoutePrefix = "/blog/category/"
	postRoutePrefix     = "/blog/"

	categoryChangeFreq = "daily"
	categoryPriority   = "0.8"
	toolChangeFreq     = "monthly"
	postChangeFreq     = "monthly"
	postPriority       = "0.7"
)

func findStaticPage(route string) (staticPage, bool) {
	for _, page := range staticPages {
		if page.Path == route {
			return page, true
		}
	}
	return staticPage{}, false
}
