package scoring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

// ==========================
// Category
// ==========================

func TestCategorize_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		score *int
		want  Category
	}{
		{"absent", nil, CategoryUnknown},
		{"one", intPtr(1), CategoryCold},
		{"two", intPtr(2), CategoryCold},
		{"three", intPtr(3), CategoryWarm},
		{"four", intPtr(4), CategoryHot},
		{"five", intPtr(5), CategoryHot},
		{"zero", intPtr(0), CategoryCold},
		{"negative", intPtr(-7), CategoryCold},
		{"seven", intPtr(7), CategoryHot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.score))
		})
	}
}

func TestCategorize_PartitionsEveryInteger(t *testing.T) {
	for s := -1000; s <= 1000; s++ {
		got := Categorize(intPtr(s))
		switch {
		case s >= 4:
			assert.Equal(t, CategoryHot, got, "score %d", s)
		case s == 3:
			assert.Equal(t, CategoryWarm, got, "score %d", s)
		default:
			assert.Equal(t, CategoryCold, got, "score %d", s)
		}
		assert.NotEqual(t, CategoryUnknown, got)
	}
}

func TestCategory_Label(t *testing.T) {
	assert.Equal(t, "🟢 Hot", CategoryHot.Label())
	assert.Equal(t, "🟡 Warm", CategoryWarm.Label())
	assert.Equal(t, "🔴 Cold", CategoryCold.Label())
	assert.Equal(t, "❓ Unknown", CategoryUnknown.Label())
	assert.Equal(t, "❓ Lukewarm", Category("Lukewarm").Label())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Hot", CategoryHot},
		{"hot", CategoryHot},
		{"🟢 Hot", CategoryHot},
		{" 🟡 Warm ", CategoryWarm},
		{"COLD", CategoryCold},
		{"🔴 Cold", CategoryCold},
		{"Unknown", CategoryUnknown},
		{"", CategoryUnknown},
		{"Lukewarm", CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.in))
		})
	}
}

// ==========================
// Need
// ==========================

func TestClassifyNeed(t *testing.T) {
	tests := []struct {
		name    string
		message interface{}
		want    Need
	}{
		{"store", "I need an online store", NeedECommerce},
		{"tienda spanish", "Quiero una tienda virtual", NeedECommerce},
		{"ecommerce", "Looking for ECOMMERCE help", NeedECommerce},
		{"web", "We need a new web presence", NeedWebsite},
		{"page", "Landing page please", NeedWebsite},
		{"pagina accented", "Necesito una página", NeedWebsite},
		{"pagina uppercase accented", "NECESITO UNA PÁGINA", NeedWebsite},
		{"instagram", "Grow our Instagram", NeedSocialMedia},
		{"social", "social media manager", NeedSocialMedia},
		{"redes", "Manejo de redes", NeedSocialMedia},
		{"store beats web", "web store", NeedECommerce},
		{"web beats social", "social web", NeedWebsite},
		{"substring match", "website redesign", NeedWebsite},
		{"no keyword", "Just saying hi", NeedOther},
		{"empty", "", NeedOther},
		{"nil", nil, NeedOther},
		{"number", 42.0, NeedOther},
		{"bool", true, NeedOther},
		{"missing cell as map", map[string]interface{}{}, NeedOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyNeed(tt.message))
		})
	}
}

func TestClassifyNeed_ConcurrentCallers(t *testing.T) {
	messages := []string{"UNA TIENDA", "NECESITO UNA PÁGINA", "Redes Sociales", "hola"}
	want := []Need{NeedECommerce, NeedWebsite, NeedSocialMedia, NeedOther}

	var wg sync.WaitGroup
	got := make([]Need, 40)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = ClassifyNeed(messages[i%len(messages)])
		}(i)
	}
	wg.Wait()

	for i, n := range got {
		assert.Equal(t, want[i%len(want)], n, "message %q", messages[i%len(messages)])
	}
}

// ==========================
// Recommendation
// ==========================

func TestRecommend(t *testing.T) {
	assert.Equal(t, "Contact immediately", Recommend(CategoryHot))
	assert.Equal(t, "Follow up soon", Recommend(CategoryWarm))
	assert.Equal(t, "Low priority", Recommend(CategoryCold))
	assert.Equal(t, "Review manually", Recommend(CategoryUnknown))
	assert.Equal(t, "Review manually", Recommend(Category("")))
	assert.Equal(t, "Review manually", Recommend(Category("🟢 Hot")))
}

func TestRecommend_TotalOverCategorizeOutput(t *testing.T) {
	for _, s := range []*int{nil, intPtr(-1), intPtr(1), intPtr(3), intPtr(5), intPtr(99)} {
		assert.NotEmpty(t, Recommend(Categorize(s)))
	}
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkClassifyNeed(b *testing.B) {
	msg := "Hola, necesito ayuda con mis redes sociales y quizás una PÁGINA nueva"
	for i := 0; i < b.N; i++ {
		ClassifyNeed(msg)
	}
}

func BenchmarkCategorize(b *testing.B) {
	s := intPtr(4)
	for i := 0; i < b.N; i++ {
		Categorize(s)
	}
}
