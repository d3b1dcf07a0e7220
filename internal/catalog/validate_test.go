package catalog

import "testing"

func TestIsValidSpringAnnotation(t *testing.T) {
	valid := []string{
		"@Autowired",
		"@RestController",
		"@Scheduled.fixedRate",
		"@_internal",
		"@X",
	}
	for _, s := range valid {
		if !IsValidSpringAnnotation(s) {
			t.Errorf("IsValidSpringAnnotation(%q) = false, want true", s)
		}
	}
	invalid := []string{
		"",
		"Autowired",
		"@",
		"@1Foo",
		"@Foo.",
		"@Foo Bar",
		"@Foo(bar)",
		"[Inject]",
	}
	for _, s := range invalid {
		if IsValidSpringAnnotation(s) {
			t.Errorf("IsValidSpringAnnotation(%q) = true, want false", s)
		}
	}
}

func TestIsValidDotnetAttribute(t *testing.T) {
	valid := []string{
		"[Inject]",
		"[ApiController]",
		"[HttpGet]",
		"[Microsoft.AspNetCore.Mvc.FromBody]",
	}
	for _, s := range valid {
		if !IsValidDotnetAttribute(s) {
			t.Errorf("IsValidDotnetAttribute(%q) = false, want true", s)
		}
	}
	invalid := []string{
		"",
		"Inject",
		"[]",
		"[1Foo]",
		"[Foo",
		"Foo]",
		"[Foo(bar)]",
		"@Autowired",
	}
	for _, s := range invalid {
		if IsValidDotnetAttribute(s) {
			t.Errorf("IsValidDotnetAttribute(%q) = true, want false", s)
		}
	}
}

func TestIsValidTag(t *testing.T) {
	valid := []string{"core", "spring-boot", "c#", "net8:core"}
	for _, s := range valid {
		if !IsValidTag(s) {
			t.Errorf("IsValidTag(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "Core", "has space", "double--hyphen", "-leading"}
	for _, s := range invalid {
		if IsValidTag(s) {
			t.Errorf("IsValidTag(%q) = true, want false", s)
		}
	}
}
