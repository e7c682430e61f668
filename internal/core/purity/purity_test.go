package purity

import (
	"math"
	"testing"
)

func mustValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New(DefaultPolicy())
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	return v
}

func TestValidate_PureArabicPasses(t *testing.T) {
	v := mustValidator(t)
	sc := v.Validate("يحدد القانون المدني شروط صحة العقد بين الطرفين", "ar")
	if sc.Verdict != VerdictPass {
		t.Fatalf("want PASS, got %s (%+v)", sc.Verdict, sc)
	}
	if sc.TargetRatio < 0.95 {
		t.Fatalf("target ratio too low: %f", sc.TargetRatio)
	}
}

func TestValidate_RatiosSumToOne(t *testing.T) {
	v := mustValidator(t)
	sc := v.Validate("العقد valid договор بين الطرفين", "ar")
	sum := sc.TargetRatio + sc.SourceRatio + sc.ForeignRatio + sc.OtherRatio
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("ratios sum to %f", sum)
	}
}

func TestValidate_LatinContaminationDegrades(t *testing.T) {
	v := mustValidator(t)
	// roughly 85% Arabic letters, the rest Latin
	sc := v.Validate("تنص المادة الخامسة من القانون على أن جميع البنود الواردة في هذا العقد ملزمة للطرفين download", "ar")
	if sc.Verdict != VerdictDegraded {
		t.Fatalf("want DEGRADED, got %s (target=%f)", sc.Verdict, sc.TargetRatio)
	}
}

func TestValidate_MostlyWrongScriptRejects(t *testing.T) {
	v := mustValidator(t)
	sc := v.Validate("Les témoins sont définis dans le code", "ar")
	if sc.Verdict != VerdictReject {
		t.Fatalf("want REJECT, got %s", sc.Verdict)
	}
}

func TestValidate_CyrillicCountsAsForeign(t *testing.T) {
	v := mustValidator(t)
	sc := v.Validate("тест тест тест тест", "ar")
	if sc.ForeignRatio != 1.0 {
		t.Fatalf("want foreign ratio 1.0, got %f", sc.ForeignRatio)
	}
	if sc.Verdict != VerdictReject {
		t.Fatalf("want REJECT, got %s", sc.Verdict)
	}
}

func TestValidate_EmptyAndWhitespaceReject(t *testing.T) {
	v := mustValidator(t)
	for _, in := range []string{"", "   ", "\n\t", "1234 ... !!"} {
		if sc := v.Validate(in, "ar"); sc.Verdict != VerdictReject {
			t.Fatalf("input %q: want REJECT, got %s", in, sc.Verdict)
		}
	}
}

func TestValidate_DigitsAndPunctuationIgnored(t *testing.T) {
	v := mustValidator(t)
	sc := v.Validate("المادة 15: البند (3) — 2024/05/01", "ar")
	if sc.Verdict != VerdictPass {
		t.Fatalf("digits/punct must not dilute the ratio, got %s", sc.Verdict)
	}
	if sc.TargetRatio != 1.0 {
		t.Fatalf("want 1.0 target ratio, got %f", sc.TargetRatio)
	}
}

func TestValidateTranslation_TermMismatchDemotesPass(t *testing.T) {
	v := mustValidator(t)
	src := "Les témoins sont définis dans le contrat"
	// pure Arabic but renders "contrat" as something non-canonical and omits شاهد
	out := "يتم تعريف الحاضرين في الاتفاقية الموقعة بين الطرفين بموجب القانون"
	sc := v.ValidateTranslation(src, out, "ar")
	if sc.Verdict != VerdictDegraded {
		t.Fatalf("want DEGRADED on term mismatch, got %s", sc.Verdict)
	}
	if len(sc.TermMismatches) == 0 {
		t.Fatalf("expected term mismatches recorded")
	}
}

func TestValidateTranslation_CanonicalTermsKeepPass(t *testing.T) {
	v := mustValidator(t)
	src := "Les témoins sont définis dans le contrat"
	out := "يُحدَّد الشهود في العقد المبرم بين الطرفين ويُعتبر كل شاهد ملزماً بالإدلاء بشهادته"
	sc := v.ValidateTranslation(src, out, "ar")
	if sc.Verdict != VerdictPass {
		t.Fatalf("want PASS, got %s (%v)", sc.Verdict, sc.TermMismatches)
	}
}

func TestValidateTranslation_TermMatchesWholeWordsOnly(t *testing.T) {
	v := mustValidator(t)
	// "jugement" and "tribunal" are terms of art here; "juge" is not,
	// it only appears as a fragment of "jugement" and must not demand قاضي
	src := "Le jugement a été rendu par le tribunal"
	out := "صدر الحكم عن المحكمة"
	sc := v.ValidateTranslation(src, out, "ar")
	if sc.Verdict != VerdictPass {
		t.Fatalf("want PASS, got %s (mismatches %v)", sc.Verdict, sc.TermMismatches)
	}
	if len(sc.TermMismatches) != 0 {
		t.Fatalf("unexpected mismatches: %v", sc.TermMismatches)
	}
}

func TestValidateTranslation_CanonicalAcceptsAttachedArticle(t *testing.T) {
	v := mustValidator(t)
	src := "Le contrat est signé"
	// عقد surfaces only with the definite article attached
	sc := v.ValidateTranslation(src, "تم توقيع العقد بين الطرفين", "ar")
	if len(sc.TermMismatches) != 0 {
		t.Fatalf("العقد must satisfy the عقد rendering: %v", sc.TermMismatches)
	}
}

func TestLongestRun(t *testing.T) {
	if got := LongestRun("نص فيه word طويل", FamilyLatin); got != 4 {
		t.Fatalf("want 4, got %d", got)
	}
	if got := LongestRun("نص نظيف تماماً", FamilyLatin); got != 0 {
		t.Fatalf("want 0, got %d", got)
	}
}
