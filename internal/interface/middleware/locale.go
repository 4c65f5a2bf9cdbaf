package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/oksasatya/portofolio/internal/domain/entity"
)

const (
	CtxLocale  = "locale"
	LangCookie = "lang"
)

var (
	supportedTags = []language.Tag{language.Indonesian, language.English}
	supportedLang = []string{entity.LangID, entity.LangEN}
	langMatcher   = language.NewMatcher(supportedTags)
)

// ResolveLocale picks the response language: explicit query, then cookie,
// then Accept-Language, then def.
func ResolveLocale(query, cookie, acceptLanguage, def string) string {
	for _, v := range []string{query, cookie} {
		if l, ok := normalizeLang(v); ok {
			return l
		}
	}
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, idx, conf := langMatcher.Match(tags...)
			if conf != language.No {
				return supportedLang[idx]
			}
		}
	}
	if l, ok := normalizeLang(def); ok {
		return l
	}
	return entity.LangID
}

func normalizeLang(v string) (string, bool) {
	if v == "" {
		return "", false
	}
	tag, err := language.Parse(v)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case entity.LangID:
		return entity.LangID, true
	case entity.LangEN:
		return entity.LangEN, true
	}
	return "", false
}

// Locale stores the negotiated language under CtxLocale. An explicit ?lang=
// is remembered in a cookie.
func Locale(def string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("lang")
		cookie, _ := c.Cookie(LangCookie)
		l := ResolveLocale(q, cookie, c.GetHeader("Accept-Language"), def)
		if _, ok := normalizeLang(q); ok && cookie != l {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(LangCookie, l, 365*24*3600, "/", "", secure, false)
		}
		c.Set(CtxLocale, l)
		c.Next()
	}
}

// LocaleOf returns the request language set by Locale.
func LocaleOf(c *gin.Context) string {
	if l := c.GetString(CtxLocale); l != "" {
		return l
	}
	return entity.LangID
}
