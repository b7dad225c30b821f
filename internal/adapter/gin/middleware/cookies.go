package middleware

import "github.com/gin-gonic/gin"

const cookiesKey = "cookies"

// Cookies parses the Cookie header once and exposes it through GetCookies.
func Cookies() gin.HandlerFunc {
	return func(c *gin.Context) {
		parsed := c.Request.Cookies()
		cookies := make(map[string]string, len(parsed))
		for _, ck := range parsed {
			cookies[ck.Name] = ck.Value
		}
		c.Set(cookiesKey, cookies)
		c.Next()
	}
}

// GetCookies returns the cookies parsed by Cookies, or an empty map.
func GetCookies(c *gin.Context) map[string]string {
	if v, ok := c.Get(cookiesKey); ok {
		if cookies, ok := v.(map[string]string); ok {
			return cookies
		}
	}
	return map[string]string{}
}
